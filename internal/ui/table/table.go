package table

import (
	"fmt"
	"image/color"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Re-export the bubbles types so callers build columns and rows without
// importing bubbles directly.
type Column = bubtable.Column
type Row = bubtable.Row

// Model is a typed table: it keeps the values behind each rendered row so the
// selection can be read back as a V instead of a []string.
type Model[V any] struct {
	table   bubtable.Model
	styles  bubtable.Styles
	rows    []V
	columns []Column
	toRow   func(V) Row

	width   int
	height  int
	focused bool
	noColor bool

	headerFG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel creates a focused table rendering each value with toRow.
func NewModel[V any](columns []Column, toRow func(V) Row) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithHeight(5),
		bubtable.WithWidth(80),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	s.Selected = s.Selected.PaddingLeft(0).PaddingRight(0)
	s.Cell = lipgloss.NewStyle().Align(lipgloss.Left).PaddingLeft(0).PaddingRight(1)
	t.SetStyles(s)

	return &Model[V]{
		table:   t,
		styles:  s,
		columns: columns,
		toRow:   toRow,
		width:   80,
		height:  5,
		focused: true,
	}
}

// FitColumns sizes one column per title to the widest cell, capped at
// maxWidth when it is positive.
func FitColumns(titles []string, rows []Row, maxWidth int) []Column {
	cols := make([]Column, len(titles))
	for i, title := range titles {
		w := runewidth.StringWidth(title)
		for _, r := range rows {
			if i < len(r) {
				w = max(w, runewidth.StringWidth(r[i]))
			}
		}
		if maxWidth > 0 {
			w = min(w, maxWidth)
		}
		cols[i] = Column{Title: title, Width: w}
	}
	return cols
}

// SetRows replaces the row values, keeping the cursor in range.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	rendered := make([]Row, len(rows))
	for i, v := range rows {
		rendered[i] = m.toRow(v)
	}
	m.table.SetRows(rendered)
}

// SetColumns replaces the columns and reapplies styles.
func (m *Model[V]) SetColumns(columns []Column) {
	m.columns = columns
	m.table.SetColumns(columns)
	m.applyColorScheme()
}

// Columns returns the current column definitions.
func (m *Model[V]) Columns() []Column {
	return m.columns
}

// Rows returns the row values.
func (m *Model[V]) Rows() []V {
	return m.rows
}

func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// Selected returns the value under the cursor, or false when the table is
// empty.
func (m *Model[V]) Selected() (V, bool) {
	var zero V
	c := m.Cursor()
	if c < 0 || c >= len(m.rows) {
		return zero, false
	}
	return m.rows[c], true
}

// SetSize sets the table dimensions; height includes the header.
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = max(3, height)
	m.table.SetWidth(width)
	m.table.SetHeight(m.height)
}

func (m *Model[V]) Focus() {
	m.focused = true
	m.table.Focus()
}

func (m *Model[V]) Blur() {
	m.focused = false
	m.table.Blur()
}

func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor drops colors; the selected row falls back to reverse video.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets the header and selection colors. Nil keeps the default.
func (m *Model[V]) SetColors(headerFG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards navigation messages to the bubbles table.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model[V]) View() string {
	return m.table.View()
}

// Height returns the rendered height including the header.
func (m *Model[V]) Height() int {
	return lipgloss.Height(m.View())
}

func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, cursor=%d, focused=%t]", len(m.rows), m.Cursor(), m.focused)
}
