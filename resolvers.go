package htmd

import "strings"

// TagStyle is the syntactic form in which a tag appeared.
type TagStyle uint8

const (
	// TagOpen is a plain opening tag such as <p>.
	TagOpen TagStyle = iota
	// TagClose is a closing tag such as </p>.
	TagClose
	// TagSelfClosing is an opening tag terminated by "/>" such as <hr />.
	TagSelfClosing
)

func (s TagStyle) String() string {
	switch s {
	case TagOpen:
		return "open"
	case TagClose:
		return "close"
	case TagSelfClosing:
		return "self-closing"
	}
	return "unknown"
}

// TagResolver maps one occurrence of a tag to a token. Returning nil drops
// the tag. For TagClose, attrs are those of the matching opening tag.
type TagResolver func(style TagStyle, attrs []Attr) *Token

// ResolverOption configures the resolver constructors.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	typ    string
	markup string
	block  bool
}

// WithTokenType sets the token type stem, e.g. "link" yields link_open and
// link_close. The tag name is used when unset.
func WithTokenType(typ string) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.typ = typ
	}
}

// WithMarkup sets the markup recorded on produced tokens.
func WithMarkup(markup string) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.markup = markup
	}
}

// WithBlock marks produced tokens as block-level.
func WithBlock(block bool) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.block = block
	}
}

func newResolverConfig(tag string, opts []ResolverOption) resolverConfig {
	cfg := resolverConfig{typ: tag}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// InlineTokenResolver returns a resolver producing <type>_open, <type>_close
// and, for self-closing occurrences, atomic <type> tokens.
func InlineTokenResolver(tag string, opts ...ResolverOption) TagResolver {
	cfg := newResolverConfig(tag, opts)
	return func(style TagStyle, attrs []Attr) *Token {
		tok := &Token{
			Tag:    tag,
			Attrs:  cloneAttrs(attrs),
			Markup: cfg.markup,
			Block:  cfg.block,
		}
		switch style {
		case TagOpen:
			tok.Type = cfg.typ + "_open"
			tok.Nesting = NestingOpen
		case TagClose:
			tok.Type = cfg.typ + "_close"
			tok.Nesting = NestingClose
		default:
			tok.Type = cfg.typ
			tok.Nesting = NestingSelf
		}
		return tok
	}
}

// BlockTokenResolver is InlineTokenResolver with Block set.
func BlockTokenResolver(tag string, opts ...ResolverOption) TagResolver {
	return InlineTokenResolver(tag, append([]ResolverOption{WithBlock(true)}, opts...)...)
}

// AtomicTokenResolver returns a resolver for elements without content, such
// as <br> or <hr>. Every opening produces a nesting 0 token; closing tags
// are dropped.
func AtomicTokenResolver(tag string, opts ...ResolverOption) TagResolver {
	cfg := newResolverConfig(tag, opts)
	return func(style TagStyle, attrs []Attr) *Token {
		if style == TagClose {
			return nil
		}
		return &Token{
			Type:    cfg.typ,
			Tag:     tag,
			Nesting: NestingSelf,
			Attrs:   cloneAttrs(attrs),
			Markup:  cfg.markup,
			Block:   cfg.block,
		}
	}
}

// DefaultTagResolvers returns a new copy of the built-in resolver table.
func DefaultTagResolvers() map[string]TagResolver {
	tags := map[string]TagResolver{
		"p":          BlockTokenResolver("p", WithTokenType("paragraph")),
		"blockquote": BlockTokenResolver("blockquote", WithMarkup(">")),
		"aside":      BlockTokenResolver("aside"),
		"ul":         BlockTokenResolver("ul", WithTokenType("bullet_list"), WithMarkup("*")),
		"ol":         BlockTokenResolver("ol", WithTokenType("ordered_list"), WithMarkup(".")),
		"li":         BlockTokenResolver("li", WithTokenType("list_item")),
		"dl":         BlockTokenResolver("dl"),
		"dt":         BlockTokenResolver("dt"),
		"dd":         BlockTokenResolver("dd"),
		"hr":         AtomicTokenResolver("hr", WithBlock(true), WithMarkup("***")),

		"table":    BlockTokenResolver("table"),
		"colgroup": BlockTokenResolver("colgroup"),
		"col":      AtomicTokenResolver("col", WithBlock(true)),
		"thead":    BlockTokenResolver("thead"),
		"tbody":    BlockTokenResolver("tbody"),
		"tr":       BlockTokenResolver("tr"),
		"th":       BlockTokenResolver("th"),
		"td":       BlockTokenResolver("td"),

		"a":      InlineTokenResolver("a", WithTokenType("link")),
		"em":     InlineTokenResolver("em", WithMarkup("_")),
		"strong": InlineTokenResolver("strong", WithMarkup("**")),
		"s":      InlineTokenResolver("s", WithMarkup("~~")),
		"br":     AtomicTokenResolver("br", WithTokenType("hardbreak")),
		"img":    AtomicTokenResolver("img", WithTokenType("image")),
	}
	for level := 1; level <= 6; level++ {
		tag := "h" + string(rune('0'+level))
		tags[tag] = BlockTokenResolver(tag, WithTokenType("heading"), WithMarkup(strings.Repeat("#", level)))
	}
	return tags
}
