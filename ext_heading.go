package htmd

import "strings"

// HeadingTokenHandlerRules returns the heading_close handler. Opening
// heading tokens go through the default handler.
func HeadingTokenHandlerRules() map[string]TokenHandlerRule {
	return map[string]TokenHandlerRule{
		"heading_close": func(tokens []*Token, idx int, stack *RenderStack) ([]string, error) {
			tok := tokens[idx]
			frame, err := stack.PopTag(tok.Tag)
			if err != nil {
				return nil, err
			}
			return stack.PushRendered([]string{headingMarkup(tok) + " " + Inline(frame.Children), ""}), nil
		},
	}
}

func headingMarkup(tok *Token) string {
	if tok.Markup != "" {
		return tok.Markup
	}
	if len(tok.Tag) == 2 && tok.Tag[0] == 'h' && tok.Tag[1] >= '1' && tok.Tag[1] <= '6' {
		return strings.Repeat("#", int(tok.Tag[1]-'0'))
	}
	return "#"
}
