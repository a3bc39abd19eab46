package htmd

import (
	"maps"
	"strings"
)

// HTMLParser tokenizes a restricted HTML dialect into a markdown token
// stream. Tags are mapped to tokens by the resolvers in Tags, keyed by the
// lower-cased tag name; callers may add or replace entries at any time
// outside of a Parse call.
type HTMLParser struct {
	Tags map[string]TagResolver
}

// NewHTMLParser returns a parser seeded with DefaultTagResolvers.
func NewHTMLParser(opts ...ParserOption) *HTMLParser {
	cfg := parserConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	tags := DefaultTagResolvers()
	maps.Copy(tags, cfg.tags)
	for _, tag := range cfg.selfClosing {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		tags[tag] = AtomicTokenResolver(tag, WithBlock(true))
	}
	return &HTMLParser{Tags: tags}
}

// TokenizeOptions configures TokenizeHTML.
type TokenizeOptions struct {
	// SelfClosingTags are treated as atomic block elements: the opening
	// tag produces a nesting 0 token typed with the tag name and the
	// closing tag is ignored.
	SelfClosingTags []string
}

// TokenizeHTML tokenizes src with the default resolver table.
func TokenizeHTML(src string, opts TokenizeOptions) ([]*Token, error) {
	return NewHTMLParser(WithSelfClosingTags(opts.SelfClosingTags...)).Parse(src)
}

// Parse tokenizes src in a single left-to-right pass.
//
// Runs of spaces and newlines between two tags collapse to a single space
// when they follow inline content, and are dropped otherwise. A run in
// front of text keeps its last character.
func (p *HTMLParser) Parse(src string) ([]*Token, error) {
	z := htmlTokenizer{src: src, tags: p.Tags}
	for z.pos < len(z.src) {
		skipped := z.skipWhitespace()
		if z.pos >= len(z.src) {
			break
		}
		if z.src[z.pos] == '<' {
			if skipped && z.lastIsInline() {
				z.pushInline(NewText(" "))
			}
			z.pos++
			if err := z.consumeTag(); err != nil {
				return nil, err
			}
			continue
		}
		if skipped {
			z.pos--
		}
		z.pushInline(z.consumeText())
	}
	return z.tokens, nil
}

type htmlTokenizer struct {
	src    string
	pos    int
	tags   map[string]TagResolver
	tokens []*Token
}

func (z *htmlTokenizer) lastIsInline() bool {
	return len(z.tokens) > 0 && z.tokens[len(z.tokens)-1].IsInline()
}

// pushInline appends tok to the trailing inline wrapper, starting a new
// wrapper if the stream does not end with one.
func (z *htmlTokenizer) pushInline(tok *Token) {
	if !z.lastIsInline() {
		z.tokens = append(z.tokens, NewToken(TypeInline, "", NestingSelf))
	}
	parent := z.tokens[len(z.tokens)-1]
	parent.Children = append(parent.Children, tok)
}

func (z *htmlTokenizer) skipWhitespace() bool {
	start := z.pos
	for z.pos < len(z.src) && (z.src[z.pos] == ' ' || z.src[z.pos] == '\n') {
		z.pos++
	}
	return z.pos > start
}

func (z *htmlTokenizer) consumeText() *Token {
	end := strings.IndexByte(z.src[z.pos:], '<')
	if end < 0 {
		end = len(z.src) - z.pos
	}
	text := z.src[z.pos : z.pos+end]
	z.pos += end
	return NewText(text)
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

func (z *htmlTokenizer) consumeWord() string {
	start := z.pos
	for z.pos < len(z.src) && isWordByte(z.src[z.pos]) {
		z.pos++
	}
	return z.src[start:z.pos]
}

// consumeQuoted reads up to the closing '"' and steps past it.
func (z *htmlTokenizer) consumeQuoted() string {
	end := strings.IndexByte(z.src[z.pos:], '"')
	if end < 0 {
		value := z.src[z.pos:]
		z.pos = len(z.src)
		return value
	}
	value := z.src[z.pos : z.pos+end]
	z.pos += end + 1
	return value
}

// consumeAttrs reads attributes up to and including the terminating '>' or
// "/>", reporting whether the tag was self-closing.
func (z *htmlTokenizer) consumeAttrs() ([]Attr, bool) {
	var attrs []Attr
	for z.pos < len(z.src) {
		z.skipWhitespace()
		if strings.HasPrefix(z.src[z.pos:], "/>") {
			z.pos += 2
			return attrs, true
		}
		if z.pos >= len(z.src) {
			break
		}
		if z.src[z.pos] == '>' {
			z.pos++
			return attrs, false
		}
		name := z.consumeWord()
		if name == "" {
			// not an attribute; step over it so the loop advances
			z.pos++
			continue
		}
		z.skipWhitespace()
		value := "true"
		if strings.HasPrefix(z.src[z.pos:], `="`) {
			z.pos += 2
			z.skipWhitespace()
			value = z.consumeQuoted()
		}
		attrs = append(attrs, Attr{Name: name, Value: value})
	}
	return attrs, false
}

// consumeTag is called with the cursor just past '<'.
func (z *htmlTokenizer) consumeTag() error {
	offset := z.pos - 1
	style := TagOpen
	if z.pos < len(z.src) && z.src[z.pos] == '/' {
		style = TagClose
		z.pos++
	}
	name := strings.ToLower(z.consumeWord())

	var attrs []Attr
	if style == TagClose {
		if z.pos >= len(z.src) || z.src[z.pos] != '>' {
			return &MalformedClosingTagError{Tag: name, Offset: offset}
		}
		z.pos++
	} else {
		var selfClosing bool
		attrs, selfClosing = z.consumeAttrs()
		if selfClosing {
			style = TagSelfClosing
		}
	}

	resolve, ok := z.tags[name]
	if !ok || resolve == nil {
		return &TagResolverNotFoundError{Tag: name}
	}
	if style == TagClose {
		attrs = z.openingAttrs(name)
	}
	tok := resolve(style, attrs)
	if tok == nil {
		return nil
	}
	if tok.Block {
		z.tokens = append(z.tokens, tok)
	} else {
		z.pushInline(tok)
	}
	return nil
}

// openingAttrs finds the attributes of the unmatched opening tag that a
// closing tag pairs with, looking in the current inline wrapper first and
// then in the top-level stream.
func (z *htmlTokenizer) openingAttrs(tag string) []Attr {
	if z.lastIsInline() {
		if attrs, ok := findOpening(z.tokens[len(z.tokens)-1].Children, tag); ok {
			return attrs
		}
	}
	attrs, _ := findOpening(z.tokens, tag)
	return attrs
}

func findOpening(tokens []*Token, tag string) ([]Attr, bool) {
	depth := 0
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if tok.Tag != tag {
			continue
		}
		switch tok.Nesting {
		case NestingClose:
			depth++
		case NestingOpen:
			if depth == 0 {
				return tok.Attrs, true
			}
			depth--
		}
	}
	return nil, false
}
