package formatter

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/tblcfg/pkg/columns"
)

// NoColumnsMessage is rendered when no column is visible.
const NoColumnsMessage = "(no visible columns)"

// TableOptions controls RenderTable.
type TableOptions struct {
	// MaxColumnWidth caps every column; 0 disables the cap.
	MaxColumnWidth int
	// RowNumbers prepends a "#" column.
	RowNumbers bool
	// FirstRow is the number shown for the first row when RowNumbers is set.
	// Values below 1 are treated as 1.
	FirstRow int
	NoColor  bool
	// Colors overrides the default palette; ignored with NoColor.
	Colors TableColors
	// Separator is the gap between columns; defaults to two spaces.
	Separator string
}

// RenderTable renders rows under the given columns, in the order given. Each
// cell is looked up by column id; missing fields render empty.
func RenderTable(cols []columns.Descriptor, rows []map[string]any, opts TableOptions) string {
	if len(cols) == 0 {
		return NoColumnsMessage + "\n"
	}
	sep := opts.Separator
	if sep == "" {
		sep = "  "
	}
	first := opts.FirstRow
	if first < 1 {
		first = 1
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(cols))
		for j, col := range cols {
			cells[i][j] = truncate(Stringify(row[col.ID]), opts.MaxColumnWidth)
		}
	}

	widths := make([]int, len(cols))
	for j, col := range cols {
		widths[j] = lipgloss.Width(truncate(col.Title(), opts.MaxColumnWidth))
		for i := range cells {
			if w := lipgloss.Width(cells[i][j]); w > widths[j] {
				widths[j] = w
			}
		}
	}
	numWidth := 0
	if opts.RowNumbers {
		numWidth = max(len("#"), len(strconv.Itoa(first+len(rows)-1)))
	}

	th := newTheme(opts.Colors)
	style := func(s lipgloss.Style, text string) string {
		if opts.NoColor {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	parts := make([]string, 0, len(cols)+1)
	if opts.RowNumbers {
		parts = append(parts, style(th.header, padRight("#", numWidth)))
	}
	for j, col := range cols {
		parts = append(parts, style(th.header, padRight(truncate(col.Title(), widths[j]), widths[j])))
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
	b.WriteByte('\n')

	total := numWidth
	if opts.RowNumbers {
		total += lipgloss.Width(sep)
	}
	for j, w := range widths {
		total += w
		if j > 0 {
			total += lipgloss.Width(sep)
		}
	}
	b.WriteString(style(th.separator, strings.Repeat("─", total)))
	b.WriteByte('\n')

	for i, row := range cells {
		parts = parts[:0]
		if opts.RowNumbers {
			parts = append(parts, style(th.key, padLeft(strconv.Itoa(first+i), numWidth)))
		}
		for j, cell := range row {
			parts = append(parts, style(th.value, padRight(cell, widths[j])))
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
