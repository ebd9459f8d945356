package display

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Table renders an aligned text table of prayer times with optional color.
type Table struct {
	title   string
	headers []string
	rows    [][]string
	// highlight is the 0-based row index drawn in the accent color. -1 = none.
	highlight int
	// muted rows are drawn dim, e.g. days already past.
	muted map[int]bool
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		highlight: -1,
		muted:     make(map[int]bool),
	}
}

// SetTitle sets a line printed in bold above the header.
func (t *Table) SetTitle(title string) {
	t.title = title
}

// AddRow appends a row of values. Missing trailing cells render empty.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// MuteRow draws the row at idx dim. A highlighted row is never muted.
func (t *Table) MuteRow(idx int) {
	t.muted[idx] = true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := t.widths()
	var sb strings.Builder

	if t.title != "" {
		sb.WriteString("  " + Bold(t.title) + "\n\n")
	}

	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sep, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		switch {
		case i == t.highlight:
			line = Accent(line)
		case t.muted[i]:
			line = Dim(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}

// WriteTo writes the rendered table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := utf8.RuneCountInString(cell); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}
	return widths
}

// formatRow pads every cell to its column width, counting runes so that
// non-ASCII place names stay aligned.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if pad := w - utf8.RuneCountInString(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		parts[i] = cell
	}
	return strings.Join(parts, "  ")
}
