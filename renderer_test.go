package htmd

import (
	"errors"
	"strings"
	"testing"
)

const testHTML = `<h1>Header</h1>
<p>Paragraph with <a href="test">a link</a>, <em>emphasis</em>, <strong>strong</strong>, and <em><strong>both</strong></em>.</p>
<hr />
<ul>
    <li>
        <p>with lists</p>
    </li>
    <li>
        <p>and nested lists</p>
        <ul>
            <li>
                <p>like this</p>
            </li>
        </ul>
    </li>
</ul>`

const testMarkdown = `# Header

Paragraph with [a link](test), _emphasis_, **strong**, and _**both**_.

***

* with lists
* and nested lists
    * like this`

func mustConvert(t *testing.T, src string, opts ...RendererOption) string {
	t.Helper()
	tokens, err := NewHTMLParser().Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := NewRenderer(opts...).Render(tokens)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRenderHTMLDocument(t *testing.T) {
	t.Parallel()
	if got := mustConvert(t, testHTML); got != testMarkdown {
		t.Fatalf("got:\n%s\nwant:\n%s", got, testMarkdown)
	}
}

func TestRenderElements(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "heading levels", src: "<h2>Two</h2><h6>Six</h6>", want: "## Two\n\n###### Six"},
		{name: "escape asterisk", src: "<p>2 * 3 = 6</p>", want: `2 \* 3 = 6`},
		{name: "unescape quotes", src: "<p>it&#39;s &quot;ok&quot; &#x27;x&#x27; &#34;y&#34;</p>", want: `it's "ok" 'x' "y"`},
		{name: "link title", src: `<p><a href="/x" title="X">x</a></p>`, want: `[x](/x "X")`},
		{name: "hard break", src: "<p>a<br>b</p>", want: "a  \nb"},
		{name: "soft break attr", src: `<p>a<br data-softbreak="true">b</p>`, want: "a\nb"},
		{name: "image", src: `<p><img src="i.png" alt="pic" title="T"></p>`, want: `![pic](i.png "T")`},
		{name: "image without title", src: `<p><img src="i.png" alt="pic"></p>`, want: `![pic](i.png)`},
		{name: "strikethrough", src: "<p><s>gone</s></p>", want: "~~gone~~"},
		{name: "ordered list", src: "<ol><li>a</li><li>b</li></ol>", want: "1. a\n2. b"},
		{name: "ordered list start", src: `<ol start="9"><li>a</li><li>b</li></ol>`, want: "9. a\n10. b"},
		{name: "list item with inline markup", src: "<ul><li>a <em>b</em> c</li></ul>", want: "* a _b_ c"},
		{name: "list item with break", src: "<ul><li>a<br>b</li></ul>", want: "* a  \n    b"},
		{name: "nested ordered list", src: "<ol><li><p>one</p><ol><li>inner</li></ol></li><li>two</li></ol>", want: "1. one\n    1. inner\n2. two"},
		{name: "blockquote", src: "<blockquote><p>a</p><p>b</p></blockquote>", want: "> a\n>\n> b"},
		{name: "nested blockquote", src: "<blockquote><blockquote><p>deep</p></blockquote></blockquote>", want: "> > deep"},
		{name: "blockquote with inline text", src: "<blockquote>quoted <strong>text</strong></blockquote>", want: "> quoted **text**"},
		{name: "top level inline", src: "plain <em>text</em>", want: "plain _text_"},
		{name: "hr between paragraphs", src: "<p>one</p><hr><p>two</p>", want: "one\n\n***\n\ntwo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := mustConvert(t, tc.src); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	src := `<table>
<thead><tr><th>ID</th><th>Description</th></tr></thead>
<tbody>
<tr><td>1</td><td>short</td></tr>
<tr><td>22</td><td>a longer text</td></tr>
<tr><td>3</td></tr>
</tbody>
</table>`
	want := strings.Join([]string{
		"| ID | Description |",
		"| -- | ----------- |",
		"| 1  | short         |",
		"| 22 | a longer text |",
		"| 3  |               |",
	}, "\n")
	if got := mustConvert(t, src); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	want = strings.Join([]string{
		"| ID | Description |",
		"| 1  | short         |",
		"| 22 | a longer text |",
		"| 3  |               |",
	}, "\n")
	if got := mustConvert(t, src, WithTableDivider(false)); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTableWideRunes(t *testing.T) {
	t.Parallel()
	src := "<table><tbody><tr><td>日本</td><td>x</td></tr><tr><td>abc</td><td>y</td></tr></tbody></table>"
	want := "| 日本 | x |\n| abc  | y |"
	if got := mustConvert(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderImbalancedTags(t *testing.T) {
	t.Parallel()
	tokens := []*Token{
		NewToken("paragraph_open", "p", NestingOpen),
		NewToken("blockquote_close", "blockquote", NestingClose),
	}
	_, err := NewRenderer().Render(tokens)
	var imbalanced *ImbalancedTagsError
	if !errors.As(err, &imbalanced) {
		t.Fatalf("expected ImbalancedTagsError, got %v", err)
	}
	if imbalanced.Expected != "p" || imbalanced.Received != "blockquote" {
		t.Fatalf("unexpected fields %+v", imbalanced)
	}
	if got, want := err.Error(), `imbalanced tags; expected "p", received "blockquote"`; got != want {
		t.Fatalf("message %q, want %q", got, want)
	}

	_, err = NewRenderer().Render([]*Token{NewToken("paragraph_close", "p", NestingClose)})
	if !errors.As(err, &imbalanced) || imbalanced.Expected != "" || imbalanced.Received != "p" {
		t.Fatalf("expected unexpected-close error, got %v", err)
	}

	_, err = NewRenderer().Render([]*Token{NewToken("paragraph_open", "p", NestingOpen)})
	if !errors.Is(err, ErrImbalancedTags) {
		t.Fatalf("expected ErrImbalancedTags for unclosed tag, got %v", err)
	}
	if !errors.As(err, &imbalanced) || imbalanced.Expected != "p" || imbalanced.Received != "" {
		t.Fatalf("expected unclosed p in Expected, got %+v", imbalanced)
	}
	if got, want := err.Error(), `imbalanced tags; expected "p", received ""`; got != want {
		t.Fatalf("message %q, want %q", got, want)
	}
}

func asideTokens() []*Token {
	open := NewToken("aside_open", "aside", NestingOpen)
	open.AttrPush("title", "Title")
	inline := NewToken(TypeInline, "", NestingSelf)
	inline.Children = []*Token{NewText("test content")}
	return []*Token{open, inline, NewToken("aside_close", "aside", NestingClose)}
}

func TestRenderCustomTokens(t *testing.T) {
	t.Parallel()
	r := NewRenderer()
	_, err := r.Render(asideTokens())
	var notFound *RenderRuleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected RenderRuleNotFoundError, got %v", err)
	}
	if notFound.Tag != "aside" || notFound.Type != "aside_close" {
		t.Fatalf("unexpected fields %+v", notFound)
	}

	r.RenderRules["aside"] = func(args RenderArgs) []string {
		lines := []string{`!!! note "` + args.Attrs["title"] + `"`}
		for _, line := range Flatten(args.Children) {
			lines = append(lines, "    "+line)
		}
		return lines
	}
	got, err := r.Render(asideTokens())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "!!! note \"Title\"\n    test content"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRendererOptions(t *testing.T) {
	t.Parallel()
	r := NewRenderer(
		WithRenderRules(map[string]RenderRule{
			"em": InlineRule(func(args InlineArgs) string { return "*" + args.Content + "*" }),
			"hr": nil,
		}),
		WithTokenHandlerRules(map[string]TokenHandlerRule{
			"heading_close": nil,
		}),
	)
	if _, ok := r.RenderRules["hr"]; ok {
		t.Fatalf("expected hr rule to be removed")
	}
	if _, ok := r.TokenHandlerRules["heading_close"]; ok {
		t.Fatalf("expected heading handler to be removed")
	}
	tokens, err := NewHTMLParser().Parse("<p><em>x</em></p>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := r.Render(tokens)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "*x*" {
		t.Fatalf("got %q", got)
	}

	// defaults are not shared between renderers
	if _, ok := NewRenderer().RenderRules["hr"]; !ok {
		t.Fatalf("expected a fresh renderer to keep the hr rule")
	}
}

func TestRenderHeadingMarkupFallback(t *testing.T) {
	t.Parallel()
	inline := NewToken(TypeInline, "", NestingSelf)
	inline.Children = []*Token{NewText("Title")}
	tokens := []*Token{
		NewToken("heading_open", "h3", NestingOpen),
		inline,
		NewToken("heading_close", "h3", NestingClose),
	}
	got, err := NewRenderer().Render(tokens)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "### Title" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderSoftbreakType(t *testing.T) {
	t.Parallel()
	inline := NewToken(TypeInline, "", NestingSelf)
	inline.Children = []*Token{NewText("a"), NewToken("softbreak", "br", NestingSelf), NewText("b")}
	tokens := []*Token{NewToken("paragraph_open", "p", NestingOpen), inline, NewToken("paragraph_close", "p", NestingClose)}
	got, err := NewRenderer().Render(tokens)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()
	got, err := NewRenderer().Render(nil)
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestConvertString(t *testing.T) {
	t.Parallel()
	got, err := ConvertString("<h1>Hello</h1><p>HTML in, <em>Markdown</em> out.</p>")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if want := "# Hello\n\nHTML in, _Markdown_ out."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if _, err := ConvertString("<p>x</div>"); !errors.Is(err, ErrUnresolvedTag) {
		t.Fatalf("expected ErrUnresolvedTag, got %v", err)
	}
}

func TestConvertRequest(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	err := Convert(ConvertRequest{Reader: strings.NewReader("<p>a</p>"), Writer: &out})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out.String() != "a\n" {
		t.Fatalf("got %q", out.String())
	}

	out.Reset()
	if err := Convert(ConvertRequest{Reader: strings.NewReader(""), Writer: &out}); err != nil || out.Len() != 0 {
		t.Fatalf("expected empty output, got %q, %v", out.String(), err)
	}
	if err := Convert(ConvertRequest{Reader: strings.NewReader("a\x00b"), Writer: &out}); !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	if err := Convert(ConvertRequest{Writer: &out}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}
