package htmd

import "strings"

var textReplacer = strings.NewReplacer(
	"*", `\*`,
	"&#x27;", "'",
	"&#39;", "'",
	"&quot;", `"`,
	"&#34;", `"`,
)

// CoreRenderRules returns the rules for text, links, breaks, emphasis,
// images, paragraphs and thematic breaks.
func CoreRenderRules() map[string]RenderRule {
	return map[string]RenderRule{
		"": InlineRule(func(args InlineArgs) string {
			return textReplacer.Replace(args.Content)
		}),
		"a": InlineRule(func(args InlineArgs) string {
			return "[" + args.Content + "](" + args.Attrs["href"] + titleSuffix(args.Attrs) + ")"
		}),
		"br": InlineRule(func(args InlineArgs) string {
			if args.Attrs["data-softbreak"] == "true" || (args.Token != nil && args.Token.Type == "softbreak") {
				return "\n"
			}
			return "  \n"
		}),
		"em": WrapContentRule,
		"img": InlineRule(func(args InlineArgs) string {
			return "![" + args.Attrs["alt"] + "](" + args.Attrs["src"] + titleSuffix(args.Attrs) + ")"
		}),
		"s":      WrapContentRule,
		"strong": WrapContentRule,

		"p": BlockRule(func(args RenderArgs) []string {
			return []string{Inline(args.Children)}
		}),
		"hr": BlockRule(func(RenderArgs) []string {
			return []string{"***"}
		}),
	}
}

func titleSuffix(attrs map[string]string) string {
	if title := attrs["title"]; title != "" {
		return ` "` + title + `"`
	}
	return ""
}
