package editor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tblcfg/pkg/columns"
	"github.com/oakwood-commons/tblcfg/pkg/persist"
)

func staffColumns() []columns.Descriptor {
	return []columns.Descriptor{
		{ID: "name", Label: "Name", Fixed: true},
		{ID: "role", Label: "Role"},
		{ID: "ward", Label: "Ward"},
		{ID: "shift", Label: "Shift"},
		{ID: "notes", Label: "Notes", DefaultVisible: columns.Visible(false)},
	}
}

func newEditor(t *testing.T, backend persist.Backend) (*Model, *columns.Store, *columns.Adapter) {
	t.Helper()
	adapter := columns.NewAdapter(backend)
	store := columns.NewStore(adapter)
	store.Load(context.Background(), "staff", staffColumns())
	return New(context.Background(), store, WithNoColor(true)), store, adapter
}

func press(t *testing.T, m *Model, msg tea.KeyPressMsg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

// drive feeds keys through Update the way a tea.Program does: returned
// commands run on their own goroutine while later keys and renders proceed.
func drive(m *Model, keys ...tea.KeyPressMsg) {
	var wg sync.WaitGroup
	for _, key := range keys {
		_, cmd := m.Update(key)
		if cmd != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cmd()
			}()
		}
		_ = m.View()
	}
	wg.Wait()
}

var (
	keySpace     = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	keyDown      = tea.KeyPressMsg{Code: tea.KeyDown}
	keyMoveDown  = tea.KeyPressMsg{Code: 'J', Text: "J"}
	keyShiftUp   = tea.KeyPressMsg{Code: tea.KeyUp, Mod: tea.ModShift}
	keyMoveUp    = tea.KeyPressMsg{Code: 'K', Text: "K"}
	keySave      = tea.KeyPressMsg{Code: 's', Text: "s"}
	keyReset     = tea.KeyPressMsg{Code: 'r', Text: "r"}
	keyQuit      = tea.KeyPressMsg{Code: 'q', Text: "q"}
	keyEscape    = tea.KeyPressMsg{Code: tea.KeyEscape}
	orderOf      = func(s *columns.Store) []string { return s.Config().Order }
	visibleTitle = func(m *Model) string { return m.Preview() }
)

func TestEditorToggleRefusesFixedColumn(t *testing.T) {
	m, store, _ := newEditor(t, persist.NewMemory(0))

	assert.Nil(t, press(t, m, keySpace))
	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "name is fixed")
	assert.True(t, store.Visible("name"))
	assert.False(t, m.Dirty())
}

func TestEditorShowsHiddenFixedColumn(t *testing.T) {
	backend := persist.NewMemory(0)
	adapter := columns.NewAdapter(backend)
	ctx := context.Background()
	require.NoError(t, adapter.Write(ctx, "staff", columns.Settings{
		Order:      []string{"name", "role"},
		Visibility: map[string]bool{"name": false},
	}))
	m, store, _ := newEditor(t, backend)
	require.False(t, store.Visible("name"))

	press(t, m, keySpace)
	assert.True(t, store.Visible("name"))
	status, isErr := m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "name shown", status)

	press(t, m, keySpace)
	assert.True(t, store.Visible("name"), "a visible fixed column stays visible")
	_, isErr = m.Status()
	assert.True(t, isErr)
}

func TestEditorToggleVisibility(t *testing.T) {
	m, store, _ := newEditor(t, persist.NewMemory(0))

	press(t, m, keyDown)
	require.Equal(t, 1, m.Cursor())
	press(t, m, keySpace)

	assert.False(t, store.Visible("role"))
	assert.True(t, m.Dirty())
	status, isErr := m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "role hidden", status)
	assert.Equal(t, "Name │ Ward │ Shift", visibleTitle(m))

	press(t, m, keySpace)
	assert.True(t, store.Visible("role"))
	assert.Equal(t, "Name │ Role │ Ward │ Shift", visibleTitle(m))
}

func TestEditorMoveColumn(t *testing.T) {
	m, store, _ := newEditor(t, persist.NewMemory(0))

	press(t, m, keyDown)
	press(t, m, keyMoveDown)
	assert.Equal(t, []string{"name", "ward", "role", "shift", "notes"}, orderOf(store))
	assert.Equal(t, 2, m.Cursor(), "cursor follows the moved column")
	assert.True(t, m.Dirty())

	press(t, m, keyShiftUp)
	press(t, m, keyMoveUp)
	assert.Equal(t, []string{"role", "name", "ward", "shift", "notes"}, orderOf(store))
	assert.Equal(t, 0, m.Cursor())

	press(t, m, keyMoveUp)
	assert.Equal(t, []string{"role", "name", "ward", "shift", "notes"}, orderOf(store), "top row stays put")
}

func TestEditorSaveAndReset(t *testing.T) {
	m, store, adapter := newEditor(t, persist.NewMemory(0))
	ctx := context.Background()

	press(t, m, keyDown)
	press(t, m, keySpace)
	assert.Nil(t, press(t, m, keySave))

	status, isErr := m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "saved", status)
	assert.False(t, m.Dirty())

	stored := adapter.Read(ctx, "staff")
	require.NotNil(t, stored)
	assert.Equal(t, map[string]bool{"name": true, "role": false, "ward": true, "shift": true, "notes": false}, stored.Visibility)

	press(t, m, keyMoveDown)
	assert.Nil(t, press(t, m, keyReset))

	status, _ = m.Status()
	assert.Equal(t, "defaults restored", status)
	assert.Equal(t, []string{"name", "role", "ward", "shift", "notes"}, orderOf(store))
	assert.True(t, store.Visible("role"))
	assert.Equal(t, 0, m.Cursor())
	assert.Nil(t, adapter.Read(ctx, "staff"))
}

func TestEditorSaveCapturesStateAtKeyPress(t *testing.T) {
	m, store, adapter := newEditor(t, persist.NewMemory(0))
	ctx := context.Background()

	drive(m, keyDown, keySpace, keySave, keyDown, keySpace, keyReset, keyDown, keySpace, keySave, keySpace, keyMoveUp)

	stored := adapter.Read(ctx, "staff")
	require.NotNil(t, stored)
	assert.Equal(t, []string{"name", "role", "ward", "shift", "notes"}, stored.Order)
	assert.Equal(t, map[string]bool{"name": true, "role": false, "ward": true, "shift": true, "notes": false}, stored.Visibility)

	assert.Equal(t, []string{"role", "name", "ward", "shift", "notes"}, orderOf(store))
	assert.True(t, store.Visible("role"))
	assert.True(t, m.Dirty())
}

func TestEditorSaveFailureKeepsChanges(t *testing.T) {
	m, store, _ := newEditor(t, persist.NewMemory(8))

	press(t, m, keyDown)
	press(t, m, keySpace)
	assert.Nil(t, press(t, m, keySave))

	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "save failed")
	assert.True(t, m.Dirty())
	assert.False(t, store.Visible("role"))
}

func TestEditorQuit(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{keyQuit, keyEscape} {
		m, _, _ := newEditor(t, persist.NewMemory(0))
		cmd := press(t, m, key)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
		assert.True(t, m.Quitting())
	}
}

func TestEditorView(t *testing.T) {
	m, _, _ := newEditor(t, persist.NewMemory(0))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.True(t, view.AltScreen)
	content := fmt.Sprint(view.Content)
	assert.Contains(t, content, "Columns: staff")
	assert.Contains(t, content, "LABEL")
	assert.Contains(t, content, "notes")
	assert.Contains(t, content, "Shown: Name │ Role │ Ward │ Shift")
	assert.Contains(t, content, HelpLine)

	press(t, m, keyDown)
	press(t, m, keySpace)
	assert.Contains(t, fmt.Sprint(m.View().Content), "(modified)")
}

func TestRunRequiresLoadedStore(t *testing.T) {
	store := columns.NewStore(columns.NewAdapter(persist.NewMemory(0)))
	_, err := Run(context.Background(), store, nil)
	assert.ErrorIs(t, err, columns.ErrNotLoaded)
}
