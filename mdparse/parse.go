// Package mdparse parses Markdown into the markdown-it shaped token stream
// rendered by htmd.Renderer.
//
// Parsing is done by goldmark with the GFM table and strikethrough
// extensions. The resulting AST is lowered to block tokens and inline
// wrappers, recovering the emphasis delimiters from the source so that
// rendering reproduces them.
package mdparse

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"pkt.systems/htmd"
)

// ErrUnsupported reports a Markdown construct with no token mapping.
var ErrUnsupported = errors.New("unsupported markdown node")

// UnsupportedNodeError names the goldmark node kind that could not be
// lowered to tokens.
type UnsupportedNodeError struct {
	Kind string
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported markdown node %q", e.Kind)
}

func (e *UnsupportedNodeError) Unwrap() error { return ErrUnsupported }

var md = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

// Parse parses src and returns its token stream.
func Parse(src []byte) ([]*htmd.Token, error) {
	doc := md.Parser().Parse(text.NewReader(src))
	l := lowerer{src: src}
	if err := l.blocks(doc); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// ParseString is Parse for string input.
func ParseString(src string) ([]*htmd.Token, error) {
	return Parse([]byte(src))
}

type lowerer struct {
	src    []byte
	tokens []*htmd.Token
}

func (l *lowerer) blocks(parent ast.Node) error {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if err := l.block(n); err != nil {
			return err
		}
	}
	return nil
}

func (l *lowerer) open(typ, tag, markup string, attrs ...htmd.Attr) {
	tok := htmd.NewToken(typ+"_open", tag, htmd.NestingOpen)
	tok.Markup = markup
	tok.Block = true
	tok.Attrs = attrs
	l.tokens = append(l.tokens, tok)
}

func (l *lowerer) close(typ, tag, markup string) {
	tok := htmd.NewToken(typ+"_close", tag, htmd.NestingClose)
	tok.Markup = markup
	tok.Block = true
	l.tokens = append(l.tokens, tok)
}

func (l *lowerer) container(n ast.Node, typ, tag, markup string, attrs ...htmd.Attr) error {
	l.open(typ, tag, markup, attrs...)
	if err := l.blocks(n); err != nil {
		return err
	}
	l.close(typ, tag, markup)
	return nil
}

func (l *lowerer) leaf(n ast.Node, typ, tag, markup string) error {
	l.open(typ, tag, markup)
	wrapper := htmd.NewToken(htmd.TypeInline, "", htmd.NestingSelf)
	children, err := l.inlines(n, nil)
	if err != nil {
		return err
	}
	if k := len(children); k > 0 && children[k-1].Type == "softbreak" {
		children = children[:k-1]
	}
	wrapper.Children = children
	l.tokens = append(l.tokens, wrapper)
	l.close(typ, tag, markup)
	return nil
}

func (l *lowerer) block(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Heading:
		level := min(max(n.Level, 1), 6)
		return l.leaf(n, "heading", "h"+strconv.Itoa(level), strings.Repeat("#", level))
	case *ast.Paragraph, *ast.TextBlock:
		return l.leaf(n, "paragraph", "p", "")
	case *ast.Blockquote:
		return l.container(n, "blockquote", "blockquote", ">")
	case *ast.List:
		if n.IsOrdered() {
			var attrs []htmd.Attr
			if n.Start != 1 {
				attrs = append(attrs, htmd.Attr{Name: "start", Value: strconv.Itoa(n.Start)})
			}
			return l.container(n, "ordered_list", "ol", string(n.Marker), attrs...)
		}
		return l.container(n, "bullet_list", "ul", string(n.Marker))
	case *ast.ListItem:
		return l.container(n, "list_item", "li", "")
	case *ast.ThematicBreak:
		tok := htmd.NewToken("hr", "hr", htmd.NestingSelf)
		tok.Markup = "***"
		tok.Block = true
		l.tokens = append(l.tokens, tok)
		return nil
	case *extast.Table:
		return l.container(n, "table", "table", "")
	case *extast.TableHeader:
		l.open("thead", "thead", "")
		l.open("tr", "tr", "")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := l.leaf(c, "th", "th", ""); err != nil {
				return err
			}
		}
		l.close("tr", "tr", "")
		l.close("thead", "thead", "")
		return l.tableBody(n)
	case *extast.TableRow:
		// rows are emitted by tableBody
		return nil
	}
	return &UnsupportedNodeError{Kind: n.Kind().String()}
}

// tableBody wraps the rows following header in a tbody.
func (l *lowerer) tableBody(header ast.Node) error {
	row, ok := header.NextSibling().(*extast.TableRow)
	if !ok {
		return nil
	}
	l.open("tbody", "tbody", "")
	for ; row != nil; row, _ = row.NextSibling().(*extast.TableRow) {
		l.open("tr", "tr", "")
		for c := row.FirstChild(); c != nil; c = c.NextSibling() {
			if err := l.leaf(c, "td", "td", ""); err != nil {
				return err
			}
		}
		l.close("tr", "tr", "")
	}
	l.close("tbody", "tbody", "")
	return nil
}

func (l *lowerer) inlines(parent ast.Node, out []*htmd.Token) ([]*htmd.Token, error) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		var err error
		if out, err = l.inline(n, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *lowerer) inline(n ast.Node, out []*htmd.Token) ([]*htmd.Token, error) {
	switch n := n.(type) {
	case *ast.Text:
		if content := unescape(n.Segment.Value(l.src)); content != "" {
			out = append(out, htmd.NewText(content))
		}
		switch {
		case n.HardLineBreak():
			out = append(out, htmd.NewToken("hardbreak", "br", htmd.NestingSelf))
		case n.SoftLineBreak():
			br := htmd.NewToken("softbreak", "br", htmd.NestingSelf)
			br.AttrPush("data-softbreak", "true")
			out = append(out, br)
		}
		return out, nil
	case *ast.String:
		if len(n.Value) > 0 {
			out = append(out, htmd.NewText(string(n.Value)))
		}
		return out, nil
	case *ast.Emphasis:
		tag := "em"
		if n.Level >= 2 {
			tag = "strong"
		}
		return l.wrap(n, out, tag, tag, l.emphasisMarkup(n))
	case *extast.Strikethrough:
		return l.wrap(n, out, "s", "s", l.strikeMarkup(n))
	case *ast.Link:
		attrs := []htmd.Attr{{Name: "href", Value: string(n.Destination)}}
		if len(n.Title) > 0 {
			attrs = append(attrs, htmd.Attr{Name: "title", Value: string(n.Title)})
		}
		return l.wrap(n, out, "link", "a", "", attrs...)
	case *ast.AutoLink:
		url := string(n.URL(l.src))
		open := htmd.NewToken("link_open", "a", htmd.NestingOpen)
		open.AttrPush("href", url)
		out = append(out, open, htmd.NewText(string(n.Label(l.src))))
		return append(out, htmd.NewToken("link_close", "a", htmd.NestingClose)), nil
	case *ast.Image:
		img := htmd.NewToken("image", "img", htmd.NestingSelf)
		img.AttrPush("src", string(n.Destination))
		img.AttrPush("alt", l.plainText(n))
		if len(n.Title) > 0 {
			img.AttrPush("title", string(n.Title))
		}
		return append(out, img), nil
	}
	return nil, &UnsupportedNodeError{Kind: n.Kind().String()}
}

func (l *lowerer) wrap(n ast.Node, out []*htmd.Token, typ, tag, markup string, attrs ...htmd.Attr) ([]*htmd.Token, error) {
	open := htmd.NewToken(typ+"_open", tag, htmd.NestingOpen)
	open.Markup = markup
	open.Attrs = attrs
	out = append(out, open)
	out, err := l.inlines(n, out)
	if err != nil {
		return nil, err
	}
	closing := htmd.NewToken(typ+"_close", tag, htmd.NestingClose)
	closing.Markup = markup
	return append(out, closing), nil
}

// emphasisMarkup returns the delimiter run that opened n, falling back to
// asterisks when the source position is unknown.
func (l *lowerer) emphasisMarkup(n *ast.Emphasis) string {
	off := l.openingOffset(n)
	if off >= 0 && off+n.Level <= len(l.src) {
		run := l.src[off : off+n.Level]
		if isRun(run, '*') || isRun(run, '_') {
			return string(run)
		}
	}
	return strings.Repeat("*", n.Level)
}

func (l *lowerer) strikeMarkup(n *extast.Strikethrough) string {
	end := l.openingOffset(n.FirstChild())
	if end < 0 {
		return "~~"
	}
	start := end
	for start > 0 && l.src[start-1] == '~' {
		start--
	}
	if start == end {
		return "~~"
	}
	return string(l.src[start:end])
}

// openingOffset returns the source offset at which n starts, including
// its opening delimiter, or -1 if it cannot be determined.
func (l *lowerer) openingOffset(n ast.Node) int {
	if n == nil {
		return -1
	}
	var delim int
	switch n := n.(type) {
	case *ast.Text:
		return n.Segment.Start
	case *ast.Emphasis:
		delim = n.Level
	case *ast.Link:
		delim = len("[")
	case *ast.Image:
		delim = len("![")
	case *extast.Strikethrough:
		off := l.openingOffset(n.FirstChild())
		for off > 0 && l.src[off-1] == '~' {
			off--
		}
		return off
	default:
		return -1
	}
	off := l.openingOffset(n.FirstChild())
	if off < 0 {
		return -1
	}
	return off - delim
}

// plainText concatenates the text below n, as used for image alt text.
func (l *lowerer) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.WriteString(unescape(c.Segment.Value(l.src)))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func unescape(v []byte) string {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	v = util.ResolveEntityNames(v)
	return string(v)
}

func isRun(b []byte, c byte) bool {
	return len(b) > 0 && len(bytes.Trim(b, string(c))) == 0
}
