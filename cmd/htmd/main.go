package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/htmd"
	"pkt.systems/htmd/internal/config"
	"pkt.systems/htmd/mdparse"
	"pkt.systems/version"
)

const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
	formatTokens   = "tokens"
)

func init() {
	version.SetDefaultModule("pkt.systems/htmd")
}

func main() {
	var (
		from        string
		to          string
		outPath     string
		configPath  string
		selfClosing []string
		noDivider   bool
		clean       bool
		verbose     bool
		showVersion bool
	)

	flags := pflag.NewFlagSet("htmd", pflag.ExitOnError)
	flags.StringVarP(&from, "from", "f", formatHTML, "Input format: html|markdown|tokens")
	flags.StringVarP(&to, "to", "t", formatMarkdown, "Output format: markdown|tokens")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringVar(&configPath, "config", "", "Config file (default $HTMD_CONFIG or $XDG_CONFIG_HOME/htmd/config.toml)")
	flags.StringSliceVar(&selfClosing, "self-closing", nil, "Treat tags as self-closing blocks (repeatable, comma separated)")
	flags.BoolVar(&noDivider, "no-table-divider", false, "Omit the delimiter row after table headers")
	flags.BoolVar(&clean, "clean", false, "Normalize arbitrary HTML before tokenizing")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print pipeline statistics to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: htmd [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nInputs are files or file:// URLs and are concatenated. If no input is")
		fmt.Fprintln(os.Stderr, "provided, HTML is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return
	}

	args := flags.Args()
	if len(args) == 0 && isTerminal(os.Stdin) {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	cfg.SelfClosing = append(cfg.SelfClosing, selfClosing...)
	if noDivider {
		cfg.TableDivider = false
	}
	if clean {
		cfg.Clean = true
	}

	p, err := newPipeline(from, to, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if verbose {
		p.log = os.Stderr
		if cfg.Path != "" {
			fmt.Fprintf(os.Stderr, "config: %s\n", cfg.Path)
		}
	}

	reader, closer, err := openInputs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := io.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	if err := p.runTo(src, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTo runs the pipeline into outPath, or stdout when empty. The output
// file is closed before runTo returns.
func (p *pipeline) runTo(src []byte, outPath string) (err error) {
	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if closeOut != nil {
		defer func() {
			if cerr := closeOut.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
	}
	return p.run(src, writer)
}

// pipeline converts one input document between formats.
type pipeline struct {
	from     string
	to       string
	clean    bool
	parser   *htmd.HTMLParser
	renderer *htmd.Renderer
	// log receives statistics when non-nil.
	log io.Writer
}

func newPipeline(from, to string, cfg config.Config) (*pipeline, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	switch from {
	case formatHTML, formatMarkdown, formatTokens:
	case "md":
		from = formatMarkdown
	default:
		return nil, fmt.Errorf("invalid --from %q: expected html, markdown or tokens", from)
	}
	switch to {
	case formatMarkdown, formatTokens:
	case "md":
		to = formatMarkdown
	default:
		return nil, fmt.Errorf("invalid --to %q: expected markdown or tokens", to)
	}
	return &pipeline{
		from:     from,
		to:       to,
		clean:    cfg.Clean,
		parser:   htmd.NewHTMLParser(cfg.ParserOptions()...),
		renderer: htmd.NewRenderer(cfg.RendererOptions()...),
	}, nil
}

func (p *pipeline) logf(format string, args ...any) {
	if p.log != nil {
		fmt.Fprintf(p.log, format, args...)
	}
}

func (p *pipeline) run(src []byte, w io.Writer) error {
	if err := htmd.ValidateInput(src); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	p.logf("input: %d bytes (%s)\n", len(src), p.from)

	var (
		front  []byte
		tokens []*htmd.Token
		err    error
	)
	switch p.from {
	case formatHTML:
		text := string(src)
		if p.clean {
			if text, err = cleanHTML(text, p.knownTag); err != nil {
				return fmt.Errorf("clean: %w", err)
			}
			p.logf("clean: %d bytes\n", len(text))
		}
		if tokens, err = p.parser.Parse(text); err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}
	case formatMarkdown:
		var body []byte
		front, body = mdparse.SplitFrontMatter(src)
		if tokens, err = mdparse.Parse(body); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
	case formatTokens:
		if err := json.Unmarshal(src, &tokens); err != nil {
			return fmt.Errorf("decode tokens: %w", err)
		}
	}
	p.logf("tokens: %d top-level, %d total\n", len(tokens), countTokens(tokens))

	if p.to == formatTokens {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(tokens); err != nil {
			return fmt.Errorf("encode tokens: %w", err)
		}
		return nil
	}

	out, err := p.renderer.Render(tokens)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	p.logf("markdown: %d lines\n", strings.Count(out, "\n")+1)
	var buf bytes.Buffer
	buf.Write(front)
	if out != "" {
		if len(front) > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(out)
		buf.WriteByte('\n')
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (p *pipeline) knownTag(tag string) bool {
	_, ok := p.parser.Tags[tag]
	return ok
}

func countTokens(tokens []*htmd.Token) int {
	n := 0
	for _, tok := range tokens {
		n++
		if tok != nil {
			n += countTokens(tok.Children)
		}
	}
	return n
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return inputSource{open: func() (io.Reader, io.Closer, error) {
			return os.Stdin, nil, nil
		}}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		switch strings.ToLower(u.Scheme) {
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		default:
			return inputSource{}, fmt.Errorf("unsupported input scheme %q", u.Scheme)
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	clean := normalizePath(path)
	f, err := os.Open(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
