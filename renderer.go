package htmd

import "strings"

// RenderArgs is passed to a RenderRule.
type RenderArgs struct {
	// Token is the closing token, or the token itself if atomic.
	Token *Token
	// Children holds the rendered children, one line set per child.
	Children [][]string
	// Attrs are the attributes of the opening token (or the atomic token).
	Attrs map[string]string
}

// RenderRule renders a tag popped off the stack, or an atomic tag, into
// lines. Block rules end their output with one empty line.
type RenderRule func(args RenderArgs) []string

// TokenHandlerRule takes over the handling of a token type. It has access
// to the whole stream and the render stack, and returns lines for the top
// level, which is usually the result of stack.PushRendered.
type TokenHandlerRule func(tokens []*Token, idx int, stack *RenderStack) ([]string, error)

// Renderer turns a markdown token stream back into Markdown text.
//
// RenderRules is keyed by Token.Tag, TokenHandlerRules by Token.Type. Both
// are owned by the renderer and may be modified between Render calls.
type Renderer struct {
	RenderRules       map[string]RenderRule
	TokenHandlerRules map[string]TokenHandlerRule
}

// NewRenderer returns a renderer with the default rules merged with opts.
func NewRenderer(opts ...RendererOption) *Renderer {
	cfg := rendererConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	r := &Renderer{
		RenderRules:       defaultRenderRules(!cfg.noDivider),
		TokenHandlerRules: DefaultTokenHandlerRules(),
	}
	for tag, rule := range cfg.renderRules {
		if rule == nil {
			delete(r.RenderRules, tag)
			continue
		}
		r.RenderRules[tag] = rule
	}
	for typ, rule := range cfg.handlerRules {
		if rule == nil {
			delete(r.TokenHandlerRules, typ)
			continue
		}
		r.TokenHandlerRules[typ] = rule
	}
	return r
}

// Render renders a block-level token stream. Inline wrappers are rendered
// through RenderInline on the same stack. A top-level inline wrapper that
// renders to several lines, such as text outside any block, is
// concatenated into a single line. A tag still open at the end is reported
// as an ImbalancedTagsError with the tag in Expected.
func (r *Renderer) Render(tokens []*Token) (string, error) {
	stack := &RenderStack{}
	var lines []string
	for i, tok := range tokens {
		if tok == nil {
			continue
		}
		var (
			rendered []string
			err      error
		)
		if handle := r.TokenHandlerRules[tok.Type]; handle != nil {
			rendered, err = handle(tokens, i, stack)
		} else if tok.IsInline() {
			rendered, err = r.RenderInline(tok.Children, stack)
			if len(rendered) > 1 {
				// bare inline content outside any block stays on one line
				rendered = []string{strings.Join(rendered, "")}
			}
		} else {
			rendered, err = r.HandleToken(tokens, i, stack)
		}
		if err != nil {
			return "", err
		}
		lines = append(lines, rendered...)
	}
	if top, ok := stack.Top(); ok {
		return "", &ImbalancedTagsError{Expected: top.Tag}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// RenderInline renders the children of an inline wrapper.
func (r *Renderer) RenderInline(tokens []*Token, stack *RenderStack) ([]string, error) {
	var lines []string
	for i, tok := range tokens {
		if tok == nil {
			continue
		}
		var (
			rendered []string
			err      error
		)
		if handle := r.TokenHandlerRules[tok.Type]; handle != nil {
			rendered, err = handle(tokens, i, stack)
		} else {
			rendered, err = r.HandleToken(tokens, i, stack)
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, rendered...)
	}
	return lines, nil
}

// HandleToken is the default token handler. Opening tokens push a frame,
// closing tokens pop it and apply the tag's render rule, and atomic tokens
// apply the rule to their own content.
func (r *Renderer) HandleToken(tokens []*Token, idx int, stack *RenderStack) ([]string, error) {
	tok := tokens[idx]
	var (
		attrs    map[string]string
		children [][]string
	)
	switch {
	case tok.Nesting > 0:
		return stack.PushTag(tok.Tag, tok.AttrMap()), nil
	case tok.Nesting < 0:
		frame, err := stack.PopTag(tok.Tag)
		if err != nil {
			return nil, err
		}
		attrs, children = frame.Attrs, frame.Children
	default:
		attrs = tok.AttrMap()
		if tok.Content != "" {
			children = [][]string{{tok.Content}}
		}
	}
	rule := r.RenderRules[tok.Tag]
	if rule == nil {
		return nil, &RenderRuleNotFoundError{Tag: tok.Tag, Type: tok.Type}
	}
	return stack.PushRendered(rule(RenderArgs{Token: tok, Children: children, Attrs: attrs})), nil
}

// DefaultRenderRules returns a new copy of the built-in render rules: core
// inline and paragraph rules, lists, blockquotes and tables.
func DefaultRenderRules() map[string]RenderRule {
	return defaultRenderRules(true)
}

func defaultRenderRules(tableDivider bool) map[string]RenderRule {
	rules := make(map[string]RenderRule, 32)
	for _, ext := range []map[string]RenderRule{
		BlockquoteRenderRules(),
		CoreRenderRules(),
		ListRenderRules(),
		TableRenderRules(TableOptions{Divider: tableDivider}),
	} {
		for tag, rule := range ext {
			rules[tag] = rule
		}
	}
	return rules
}

// DefaultTokenHandlerRules returns a new copy of the built-in token
// handlers.
func DefaultTokenHandlerRules() map[string]TokenHandlerRule {
	return HeadingTokenHandlerRules()
}
