package config

import (
	"strings"

	"pkt.systems/htmd"
)

// ParserOptions returns the parser options described by cfg: self-closing
// tags and a resolver for every [[tag]] entry.
func (c Config) ParserOptions() []htmd.ParserOption {
	opts := make([]htmd.ParserOption, 0, 2)
	if len(c.SelfClosing) > 0 {
		opts = append(opts, htmd.WithSelfClosingTags(c.SelfClosing...))
	}
	if len(c.Tags) > 0 {
		tags := make(map[string]htmd.TagResolver, len(c.Tags))
		for _, tag := range c.Tags {
			tags[tag.Name] = tag.resolver()
		}
		opts = append(opts, htmd.WithTagResolvers(tags))
	}
	return opts
}

// RendererOptions returns the renderer options described by cfg.
func (c Config) RendererOptions() []htmd.RendererOption {
	opts := []htmd.RendererOption{htmd.WithTableDivider(c.TableDivider)}
	if len(c.Tags) > 0 || len(c.SelfClosing) > 0 {
		defaults := htmd.DefaultRenderRules()
		rules := make(map[string]htmd.RenderRule, len(c.Tags)+len(c.SelfClosing))
		for _, name := range c.SelfClosing {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			// built-in tags such as hr keep their rule
			if _, ok := defaults[name]; ok {
				continue
			}
			rules[name] = func(htmd.RenderArgs) []string { return nil }
		}
		for _, tag := range c.Tags {
			rules[tag.Name] = tag.rule()
		}
		opts = append(opts, htmd.WithRenderRules(rules))
	}
	return opts
}

func (t Tag) resolver() htmd.TagResolver {
	opts := []htmd.ResolverOption{htmd.WithMarkup(t.Markup)}
	switch t.Kind {
	case KindBlock:
		return htmd.BlockTokenResolver(t.Name, opts...)
	case KindAtomic:
		return htmd.AtomicTokenResolver(t.Name, append(opts, htmd.WithBlock(t.Block))...)
	}
	return htmd.InlineTokenResolver(t.Name, append(opts, htmd.WithBlock(t.Block))...)
}

func (t Tag) rule() htmd.RenderRule {
	markup := t.Markup
	switch t.Kind {
	case KindBlock:
		return htmd.BlockRule(func(args htmd.RenderArgs) []string {
			return htmd.FlattenMixed(args.Children)
		})
	case KindAtomic:
		if t.Block {
			return htmd.BlockRule(func(htmd.RenderArgs) []string { return []string{markup} })
		}
		return htmd.InlineRule(func(htmd.InlineArgs) string { return markup })
	}
	return htmd.WrapContentRule
}
