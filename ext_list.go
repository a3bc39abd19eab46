package htmd

import "strconv"

// ListRenderRules returns the rules for ul, ol and li.
func ListRenderRules() map[string]RenderRule {
	return map[string]RenderRule{
		"ol": BlockRule(func(args RenderArgs) []string {
			start := 1
			if v, err := strconv.Atoi(args.Attrs["start"]); err == nil {
				start = v
			}
			return renderList(args.Children, func(i int) string {
				return strconv.Itoa(start+i) + "."
			})
		}),
		"ul": BlockRule(func(args RenderArgs) []string {
			return renderList(args.Children, func(int) string { return "*" })
		}),
		"li": func(args RenderArgs) []string {
			return FlattenMixed(args.Children)
		},
	}
}

// renderList puts the first line of each item next to its bullet and
// indents the rest one level.
func renderList(items [][]string, bullet func(i int) string) []string {
	out := make([]string, 0, len(items))
	for i, item := range items {
		item = splitLines(item)
		first, rest := "", []string(nil)
		if len(item) > 0 {
			first, rest = item[0], item[1:]
		}
		out = append(out, bullet(i)+" "+first)
		out = append(out, Indent(rest, IndentOptions{SkipEmpty: true})...)
	}
	return out
}
