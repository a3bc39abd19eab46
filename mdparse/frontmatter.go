package mdparse

import "bytes"

// SplitFrontMatter separates a leading YAML (---), TOML (+++) or JSON (;;;)
// front matter block from the Markdown body. front includes both
// delimiter lines and is nil when src does not start with front matter.
// An unclosed block, or one whose first line does not look like
// metadata, is left in the body.
func SplitFrontMatter(src []byte) (front, body []byte) {
	openLine, openNext := nextLine(src, 0)
	delim, ok := parseOpeningDelimiter(openLine)
	if !ok {
		return nil, src
	}
	secondLine, secondNext := nextLine(src, openNext)
	if !metadataLikely(secondLine) {
		return nil, src
	}
	closeNext, found := findClosingDelimiter(src, secondNext, delim)
	if !found {
		return nil, src
	}
	return src[:closeNext], src[closeNext:]
}

// nextLine returns the line starting at start without its line ending,
// and the offset just past it.
func nextLine(src []byte, start int) ([]byte, int) {
	if start >= len(src) {
		return nil, len(src)
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src)
	}
	end := start + i
	return trimCR(src[start:end]), end + 1
}

func parseOpeningDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func metadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("="))
}

func findClosingDelimiter(src []byte, start int, delim []byte) (int, bool) {
	for idx := start; idx < len(src); {
		line, next := nextLine(src, idx)
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		idx = next
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
