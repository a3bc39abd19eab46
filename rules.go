package htmd

// BlockRule wraps fn so that its output always ends with exactly one empty
// line, which separates consecutive blocks.
func BlockRule(fn func(args RenderArgs) []string) RenderRule {
	return func(args RenderArgs) []string {
		lines := fn(args)
		if len(lines) == 0 || lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		return lines
	}
}

// InlineArgs is passed to the function wrapped by InlineRule.
type InlineArgs struct {
	Token   *Token
	Content string
	Attrs   map[string]string
}

// InlineRule wraps fn for inline elements: the children are joined into
// Content and the result is a single line.
func InlineRule(fn func(args InlineArgs) string) RenderRule {
	return func(args RenderArgs) []string {
		return []string{fn(InlineArgs{
			Token:   args.Token,
			Content: Inline(args.Children),
			Attrs:   args.Attrs,
		})}
	}
}

// WrapContentRule surrounds the inline content with the token's markup,
// e.g. **content** or _content_.
func WrapContentRule(args RenderArgs) []string {
	markup := ""
	if args.Token != nil {
		markup = args.Token.Markup
	}
	return []string{markup + Inline(args.Children) + markup}
}
