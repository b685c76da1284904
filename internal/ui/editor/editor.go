// Package editor is the interactive column editor behind `tblcfg edit`.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/tblcfg/internal/ui/table"
	"github.com/oakwood-commons/tblcfg/pkg/columns"
)

// HelpLine lists the editor key bindings.
const HelpLine = "↑/↓ select · space show/hide · K/J move · s save · r reset · q quit"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headerFG    = lipgloss.Color("12")
	selectedFG  = lipgloss.Color("229")
	selectedBG  = lipgloss.Color("57")
	chromeLines = 6
)

// item is one editor row: a live column at its configured position.
type item struct {
	Pos     int
	Column  columns.Descriptor
	Visible bool
}

func toRow(it item) table.Row {
	return table.Row{
		strconv.Itoa(it.Pos),
		it.Column.ID,
		it.Column.Title(),
		yesNo(it.Visible),
		yesNo(it.Column.Fixed),
	}
}

var headers = []string{"#", "ID", "LABEL", "VISIBLE", "FIXED"}

// Option configures a Model.
type Option func(*Model)

// WithNoColor renders without ANSI colors.
func WithNoColor(noColor bool) Option {
	return func(m *Model) { m.noColor = noColor }
}

// WithTitle sets the heading shown above the column list.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithMaxColumnWidth caps the width of each editor column.
func WithMaxColumnWidth(w int) Option {
	return func(m *Model) { m.maxColumnWidth = w }
}

// Model edits the order and visibility of one table's columns through a
// loaded columns.Store. Changes stay in memory until saved.
type Model struct {
	ctx   context.Context
	store *columns.Store
	table *table.Model[item]

	title          string
	noColor        bool
	maxColumnWidth int
	width          int
	height         int

	status    string
	statusErr bool
	dirty     bool
	quitting  bool
}

// New builds an editor over store, which must already be loaded. ctx carries
// the logger and bounds save/reset calls.
func New(ctx context.Context, store *columns.Store, opts ...Option) *Model {
	m := &Model{
		ctx:            ctx,
		store:          store,
		title:          store.TableID(),
		maxColumnWidth: 32,
		width:          80,
		height:         24,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.table = table.NewModel(table.FitColumns(headers, nil, 0), toRow)
	if m.noColor {
		m.table.SetNoColor(true)
	} else {
		m.table.SetColors(headerFG, selectedFG, selectedBG)
	}
	m.refresh()
	m.resize()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "space", " ":
		m.toggle()
		return m, nil
	case "K", "shift+up":
		m.move(-1)
		return m, nil
	case "J", "shift+down":
		m.move(1)
		return m, nil
	case "s":
		m.save()
		return m, nil
	case "r":
		m.reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) toggle() {
	it, ok := m.table.Selected()
	if !ok {
		return
	}
	if it.Column.Fixed && it.Visible {
		m.setError(fmt.Sprintf("%s is fixed and cannot be hidden", it.Column.ID))
		return
	}
	if err := m.store.ToggleVisibility(it.Column.ID); err != nil {
		m.setError(err.Error())
		return
	}
	m.dirty = true
	m.refresh()
	state := "hidden"
	if m.store.Visible(it.Column.ID) {
		state = "shown"
	}
	m.setStatus(fmt.Sprintf("%s %s", it.Column.ID, state))
}

func (m *Model) move(delta int) {
	it, ok := m.table.Selected()
	if !ok {
		return
	}
	target := it.Pos + delta
	if target < 0 || target >= len(m.table.Rows()) {
		return
	}
	if err := m.store.Move(it.Column.ID, target); err != nil {
		m.setError(err.Error())
		return
	}
	m.dirty = true
	m.refresh()
	m.table.SetCursor(m.indexOf(it.Column.ID))
	m.setStatus("")
}

// save and reset run on the event loop. Store is not safe for concurrent
// use, so they must not be returned as a tea.Cmd.
func (m *Model) save() {
	if err := m.store.Save(m.ctx); err != nil {
		m.setError(fmt.Sprintf("save failed: %v", err))
		return
	}
	m.dirty = false
	m.setStatus("saved")
}

func (m *Model) reset() {
	err := m.store.Reset(m.ctx)
	m.dirty = false
	m.refresh()
	m.table.SetCursor(0)
	if err != nil {
		m.setError(fmt.Sprintf("defaults restored, but clearing stored settings failed: %v", err))
		return
	}
	m.setStatus("defaults restored")
}

// refresh rebuilds the rows from the store's working configuration.
func (m *Model) refresh() {
	cfg := m.store.Config()
	ordered := columns.Ordered(m.store.Live(), cfg)
	items := make([]item, len(ordered))
	rows := make([]table.Row, len(ordered))
	for i, col := range ordered {
		items[i] = item{Pos: i, Column: col, Visible: cfg.IsVisible(col.ID)}
		rows[i] = toRow(items[i])
	}
	m.table.SetColumns(table.FitColumns(headers, rows, m.maxColumnWidth))
	m.table.SetRows(items)
}

func (m *Model) resize() {
	m.table.SetSize(m.width, m.height-chromeLines)
}

func (m *Model) indexOf(id string) int {
	for i, it := range m.table.Rows() {
		if it.Column.ID == id {
			return i
		}
	}
	return 0
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

func (m *Model) render(style lipgloss.Style, s string) string {
	if m.noColor {
		return s
	}
	return style.Render(s)
}

// Preview lists the titles of the columns that would be displayed.
func (m *Model) Preview() string {
	cols := m.store.Columns()
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title()
	}
	if len(titles) == 0 {
		return "(no visible columns)"
	}
	return strings.Join(titles, " │ ")
}

func (m *Model) View() tea.View {
	var b strings.Builder
	title := "Columns: " + m.title
	if m.dirty {
		title += " (modified)"
	}
	b.WriteString(m.render(titleStyle, title))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString("Shown: " + m.Preview())
	b.WriteByte('\n')
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(m.render(style, m.status))
	}
	b.WriteByte('\n')
	b.WriteString(m.render(helpStyle, HelpLine))

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

// Status returns the last status line and whether it reports an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Dirty reports unsaved changes.
func (m *Model) Dirty() bool {
	return m.dirty
}

// Quitting reports whether the editor asked the program to exit.
func (m *Model) Quitting() bool {
	return m.quitting
}

// Cursor returns the selected row index.
func (m *Model) Cursor() int {
	return m.table.Cursor()
}

// Run starts the editor and blocks until it quits. The final model is
// returned so callers can report unsaved changes.
func Run(ctx context.Context, store *columns.Store, opts []Option, progOpts ...tea.ProgramOption) (*Model, error) {
	if !store.Loaded() {
		return nil, columns.ErrNotLoaded
	}
	m := New(ctx, store, opts...)
	prog := tea.NewProgram(m, append(progOpts, tea.WithContext(ctx))...)
	final, err := prog.Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		m = fm
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return m, ctx.Err()
	}
	return m, err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
