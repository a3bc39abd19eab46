package htmd

import (
	"encoding/json"
	"fmt"
)

// Nesting is the scope effect of a token.
type Nesting int8

const (
	// NestingClose closes the scope opened by the matching NestingOpen token.
	NestingClose Nesting = -1
	// NestingSelf marks an atomic token that neither opens nor closes a scope.
	NestingSelf Nesting = 0
	// NestingOpen opens a scope.
	NestingOpen Nesting = 1
)

// TypeInline is the type of the wrapper token that carries inline children.
const TypeInline = "inline"

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// MarshalJSON encodes the pair as a two-element array.
func (a Attr) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{a.Name, a.Value})
}

// UnmarshalJSON decodes a two-element array.
func (a *Attr) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("attr: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("attr: expected [name, value], got %d elements", len(pair))
	}
	a.Name, a.Value = pair[0], pair[1]
	return nil
}

// Token is one structural event in a markdown token stream.
//
// The field set mirrors markdown-it tokens so streams produced elsewhere
// can be rendered directly. Children is only used by inline wrappers.
type Token struct {
	Type     string   `json:"type"`
	Tag      string   `json:"tag"`
	Nesting  Nesting  `json:"nesting"`
	Attrs    []Attr   `json:"attrs,omitempty"`
	Content  string   `json:"content,omitempty"`
	Children []*Token `json:"children,omitempty"`
	Markup   string   `json:"markup,omitempty"`
	Block    bool     `json:"block,omitempty"`
}

// NewToken returns a token with the given type, tag and nesting.
func NewToken(typ, tag string, nesting Nesting) *Token {
	return &Token{Type: typ, Tag: tag, Nesting: nesting}
}

// NewText returns a text token.
func NewText(content string) *Token {
	return &Token{Type: "text", Content: content}
}

// AttrPush appends an attribute, keeping any existing pair with the same name.
func (t *Token) AttrPush(name, value string) {
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}

// AttrGet returns the first value stored for name.
func (t *Token) AttrGet(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrMap folds the attributes into a map. Later pairs win.
// It returns nil when the token has no attributes.
func (t *Token) AttrMap() map[string]string {
	if len(t.Attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(t.Attrs))
	for _, a := range t.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// IsInline reports whether t is an inline wrapper.
func (t *Token) IsInline() bool {
	return t != nil && t.Type == TypeInline
}

func (t *Token) String() string {
	switch {
	case t == nil:
		return "<nil>"
	case t.Content != "":
		return fmt.Sprintf("%s(%q)", t.Type, t.Content)
	case t.Tag != "":
		return fmt.Sprintf("%s<%s>", t.Type, t.Tag)
	}
	return t.Type
}

func cloneAttrs(attrs []Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	return out
}
