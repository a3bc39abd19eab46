package htmd

import "strings"

// Flatten treats every line of every rendered child as a line of the
// current element.
func Flatten(children [][]string) []string {
	n := 0
	for _, child := range children {
		n += len(child)
	}
	out := make([]string, 0, n)
	for _, child := range children {
		out = append(out, child...)
	}
	return out
}

// Inline joins every line of the rendered children into a single line.
func Inline(children [][]string) string {
	var b strings.Builder
	for _, child := range children {
		for _, line := range child {
			b.WriteString(line)
		}
	}
	return b.String()
}

// IndentOptions configures Indent.
type IndentOptions struct {
	// Prefix replaces the default four-space indent.
	Prefix string
	// AddSpace puts a space between Prefix and non-empty lines.
	AddSpace bool
	// SkipEmpty drops empty lines instead of prefixing them.
	SkipEmpty bool
}

// Indent prefixes each line. Lines holding embedded newlines are split
// first. Empty lines get the bare prefix.
func Indent(lines []string, opts IndentOptions) []string {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "    "
	}
	space := ""
	if opts.AddSpace {
		space = " "
	}
	out := make([]string, 0, len(lines))
	for _, line := range splitLines(lines) {
		if line == "" {
			if !opts.SkipEmpty {
				out = append(out, prefix)
			}
			continue
		}
		out = append(out, prefix+space+line)
	}
	return out
}

func splitLines(lines []string) []string {
	split := false
	for _, line := range lines {
		if strings.IndexByte(line, '\n') >= 0 {
			split = true
			break
		}
	}
	if !split {
		return lines
	}
	out := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		out = append(out, strings.Split(line, "\n")...)
	}
	return out
}

// FlattenMixed is Flatten for elements that may hold both inline content
// and blocks, such as an HTML <li>. Consecutive inline children are joined
// into one line; children ending in an empty line are blocks and keep
// their lines.
func FlattenMixed(children [][]string) []string {
	var (
		out []string
		run strings.Builder
		has bool
	)
	flush := func() {
		if has {
			out = append(out, run.String())
			run.Reset()
			has = false
		}
	}
	for _, child := range children {
		if n := len(child); n > 0 && child[n-1] == "" {
			flush()
			out = append(out, child...)
			continue
		}
		for _, line := range child {
			run.WriteString(line)
		}
		has = has || len(child) > 0
	}
	flush()
	return out
}
