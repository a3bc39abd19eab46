package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/htmd"
	"pkt.systems/htmd/internal/config"
)

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.html")
	if err := os.WriteFile(path, []byte("<p>hello</p>"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	reader, closer, err := openInputs([]string{path})
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "<p>hello</p>" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	fileURL := "file://" + path
	reader, closer, err = openInputs([]string{fileURL})
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "<p>hello</p>" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	if _, _, err := openInputs([]string{"https://example.com/page.html"}); err == nil {
		t.Fatalf("expected error for network input")
	}
}

func TestOpenInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.html")
	second := filepath.Join(dir, "b.html")
	if err := os.WriteFile(first, []byte("<p>one</p>"), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("<p>two</p>"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	reader, closer, err := openInputs([]string{first, second})
	if err != nil {
		t.Fatalf("openInputs concat: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "<p>one</p><p>two</p>" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestResolveOutputCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.md")
	w, closer, err := resolveOutput(path)
	if err != nil {
		t.Fatalf("resolveOutput: %v", err)
	}
	if _, err := io.WriteString(w, "ok"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ok" {
		t.Fatalf("unexpected output %q, %v", data, err)
	}
}

func TestPipelineRunToFile(t *testing.T) {
	t.Parallel()
	p, err := newPipeline("html", "markdown", config.Default())
	if err != nil {
		t.Fatalf("newPipeline: %v", err)
	}
	dir := t.TempDir()

	path := filepath.Join(dir, "out", "ok.md")
	if err := p.runTo([]byte("<p>done</p>"), path); err != nil {
		t.Fatalf("runTo: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "done\n" {
		t.Fatalf("unexpected output %q, %v", data, err)
	}

	path = filepath.Join(dir, "out", "failed.md")
	if err := p.runTo([]byte("<p>x</div>"), path); !errors.Is(err, htmd.ErrUnresolvedTag) {
		t.Fatalf("expected ErrUnresolvedTag, got %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || len(data) != 0 {
		t.Fatalf("expected empty output file, got %q, %v", data, err)
	}
}

func runPipeline(t *testing.T, from, to string, cfg config.Config, src string) (string, error) {
	t.Helper()
	p, err := newPipeline(from, to, cfg)
	if err != nil {
		t.Fatalf("newPipeline: %v", err)
	}
	var out bytes.Buffer
	err = p.run([]byte(src), &out)
	return out.String(), err
}

func TestPipelineHTMLToMarkdown(t *testing.T) {
	t.Parallel()
	got, err := runPipeline(t, "html", "markdown", config.Default(), "<h1>Title</h1><p>Body <strong>text</strong>.</p>")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "# Title\n\nBody **text**.\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPipelineMarkdownKeepsFrontMatter(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Post\n---\n\n# Hello\n\n- one\n- two\n"
	got, err := runPipeline(t, "markdown", "markdown", config.Default(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "---\ntitle: Post\n---\n\n# Hello\n\n* one\n* two\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPipelineTokensRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	encoded, err := runPipeline(t, "html", "tokens", cfg, "<p>a <em>b</em></p>")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var tokens []*htmd.Token
	if err := json.Unmarshal([]byte(encoded), &tokens); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tokens) != 3 || tokens[1].Type != htmd.TypeInline {
		t.Fatalf("unexpected tokens %v", tokens)
	}
	got, err := runPipeline(t, "tokens", "markdown", cfg, encoded)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "a _b_\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPipelineClean(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Clean = true
	src := `<!DOCTYPE html><html><head><title>x</title><style>p{}</style></head>
<body><!-- note --><div class="wrap"><P onclick="x()">Hello<BR>it's <span>me</span></P>
<script>alert(1)</script><ul><li>one<li>two</ul></div></body></html>`
	got, err := runPipeline(t, "html", "markdown", cfg, src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "Hello  \nit's me\n\n* one\n* two\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPipelineErrors(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if _, err := runPipeline(t, "html", "markdown", cfg, "<p>x</div>"); !errors.Is(err, htmd.ErrUnresolvedTag) {
		t.Fatalf("expected ErrUnresolvedTag, got %v", err)
	}
	if _, err := runPipeline(t, "html", "markdown", cfg, "<p><em>x</p></em>"); !errors.Is(err, htmd.ErrImbalancedTags) {
		t.Fatalf("expected ErrImbalancedTags, got %v", err)
	}
	if _, err := runPipeline(t, "html", "markdown", cfg, "bad \xff"); !errors.Is(err, htmd.ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if _, err := runPipeline(t, "tokens", "markdown", cfg, "{"); err == nil || !strings.Contains(err.Error(), "decode tokens") {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, err := newPipeline("pdf", "markdown", cfg); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestPipelineVerbose(t *testing.T) {
	t.Parallel()
	p, err := newPipeline("html", "markdown", config.Default())
	if err != nil {
		t.Fatalf("newPipeline: %v", err)
	}
	var log bytes.Buffer
	p.log = &log
	if err := p.run([]byte("<p>x</p>"), io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"input: 8 bytes (html)", "tokens: 3 top-level, 4 total", "markdown: 1 lines"} {
		if !strings.Contains(log.String(), want) {
			t.Fatalf("missing %q in %q", want, log.String())
		}
	}
}
