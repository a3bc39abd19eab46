package htmd

import (
	"fmt"
	"io"
)

// ConvertRequest configures Convert.
type ConvertRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Parser defaults to NewHTMLParser().
	Parser *HTMLParser
	// Renderer defaults to NewRenderer().
	Renderer *Renderer
}

// Convert reads HTML from Reader, tokenizes it and writes Markdown to
// Writer. A trailing newline is written after non-empty output.
func Convert(req ConvertRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("convert: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("convert: writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("convert: read: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	out, err := convert(string(src), req.Parser, req.Renderer)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	if _, err := io.WriteString(req.Writer, out+"\n"); err != nil {
		return fmt.Errorf("convert: write: %w", err)
	}
	return nil
}

// ConvertString converts an HTML fragment with the default parser and
// renderer.
func ConvertString(html string) (string, error) {
	return convert(html, nil, nil)
}

func convert(src string, p *HTMLParser, r *Renderer) (string, error) {
	if p == nil {
		p = NewHTMLParser()
	}
	if r == nil {
		r = NewRenderer()
	}
	tokens, err := p.Parse(src)
	if err != nil {
		return "", fmt.Errorf("tokenize: %w", err)
	}
	out, err := r.Render(tokens)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return out, nil
}
