package htmd

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
)

// TableOptions configures TableRenderRules.
type TableOptions struct {
	// Divider emits a "| --- |" delimiter row after the thead rows, which
	// makes the output a GFM table.
	Divider bool
}

// minDividerWidth keeps a delimiter cell under an empty header non-empty.
const minDividerWidth = 1

// TableRenderRules returns the rules for table elements. Cells are padded
// to the widest cell of their column within the same section.
func TableRenderRules(opts TableOptions) map[string]RenderRule {
	return map[string]RenderRule{
		"table": BlockRule(func(args RenderArgs) []string {
			lines := Flatten(args.Children)
			out := lines[:0:0]
			for _, line := range lines {
				if line != "" {
					out = append(out, line)
				}
			}
			return out
		}),
		"colgroup": func(RenderArgs) []string { return nil },
		"col":      func(RenderArgs) []string { return nil },
		"thead": func(args RenderArgs) []string {
			return renderTableSection(args.Children, opts.Divider)
		},
		"tbody": func(args RenderArgs) []string {
			return renderTableSection(args.Children, false)
		},
		"tr": func(args RenderArgs) []string {
			return Flatten(args.Children)
		},
		"th": InlineRule(func(args InlineArgs) string { return args.Content }),
		"td": InlineRule(func(args InlineArgs) string { return args.Content }),
	}
}

// renderTableSection renders rows of cells as pipe table lines.
func renderTableSection(rows [][]string, divider bool) []string {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(cell))
		}
	}
	if divider {
		for i := range widths {
			widths[i] = max(widths[i], minDividerWidth)
		}
	}

	out := make([]string, 0, len(rows)+1)
	cells := make([]string, cols)
	for _, row := range rows {
		for i := range cells {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = padding.String(cell, uint(widths[i]))
		}
		out = append(out, "| "+strings.Join(cells, " | ")+" |")
	}
	if divider {
		for i, w := range widths {
			cells[i] = strings.Repeat("-", w)
		}
		out = append(out, "| "+strings.Join(cells, " | ")+" |")
	}
	return out
}
