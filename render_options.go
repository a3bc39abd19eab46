package htmd

// RendererOption configures a Renderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	renderRules  map[string]RenderRule
	handlerRules map[string]TokenHandlerRule
	noDivider    bool
}

// WithRenderRules merges rules over the defaults. A nil rule removes the
// default for that tag.
func WithRenderRules(rules map[string]RenderRule) RendererOption {
	return func(cfg *rendererConfig) {
		if cfg.renderRules == nil {
			cfg.renderRules = make(map[string]RenderRule, len(rules))
		}
		for tag, rule := range rules {
			cfg.renderRules[tag] = rule
		}
	}
}

// WithTokenHandlerRules merges token handlers over the defaults. A nil
// handler removes the default for that token type.
func WithTokenHandlerRules(rules map[string]TokenHandlerRule) RendererOption {
	return func(cfg *rendererConfig) {
		if cfg.handlerRules == nil {
			cfg.handlerRules = make(map[string]TokenHandlerRule, len(rules))
		}
		for typ, rule := range rules {
			cfg.handlerRules[typ] = rule
		}
	}
}

// WithTableDivider enables or disables the header delimiter row emitted
// after a table's thead. It is enabled by default.
func WithTableDivider(enabled bool) RendererOption {
	return func(cfg *rendererConfig) {
		cfg.noDivider = !enabled
	}
}

// ParserOption configures an HTMLParser.
type ParserOption func(*parserConfig)

type parserConfig struct {
	tags        map[string]TagResolver
	selfClosing []string
}

// WithTagResolvers adds or replaces resolvers in the default table.
func WithTagResolvers(tags map[string]TagResolver) ParserOption {
	return func(cfg *parserConfig) {
		if cfg.tags == nil {
			cfg.tags = make(map[string]TagResolver, len(tags))
		}
		for tag, resolve := range tags {
			cfg.tags[tag] = resolve
		}
	}
}

// WithSelfClosingTags registers tags as atomic block elements whose
// closing tags are ignored.
func WithSelfClosingTags(tags ...string) ParserOption {
	return func(cfg *parserConfig) {
		cfg.selfClosing = append(cfg.selfClosing, tags...)
	}
}
