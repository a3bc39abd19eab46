package htmd

// BlockquoteRenderRules returns the blockquote rule.
func BlockquoteRenderRules() map[string]RenderRule {
	return map[string]RenderRule{
		"blockquote": BlockRule(func(args RenderArgs) []string {
			lines := FlattenMixed(args.Children)
			if n := len(lines); n > 0 && lines[n-1] == "" {
				lines = lines[:n-1]
			}
			return Indent(lines, IndentOptions{Prefix: ">", AddSpace: true})
		}),
	}
}
