package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tblcfg/pkg/columns"
)

func TestStringify(t *testing.T) {
	n := 7
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "hello", want: "hello"},
		{name: "multiline", in: "a\r\nb\nc", want: `a\nb\nc`},
		{name: "tab", in: "a\tb", want: "a b"},
		{name: "bool", in: true, want: "true"},
		{name: "int", in: 42, want: "42"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "map", in: map[string]any{"a": 1}, want: `{"a":1}`},
		{name: "list", in: []any{"x", 2}, want: `["x",2]`},
		{name: "typed slice", in: []string{"x"}, want: `["x"]`},
		{name: "pointer", in: &n, want: "7"},
		{name: "nil pointer", in: (*int)(nil), want: ""},
		{name: "struct", in: struct{ A int }{A: 1}, want: `{"A":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "hel", truncate("hello", 3))
	assert.Equal(t, "日...", truncate("日本語の文", 5))
}

func TestRenderTablePlain(t *testing.T) {
	cols := []columns.Descriptor{{ID: "name", Label: "Name"}, {ID: "role"}}
	rows := []map[string]any{
		{"name": "Ana", "role": "nurse"},
		{"name": "Benedict", "extra": "ignored"},
	}

	out := RenderTable(cols, rows, TableOptions{NoColor: true})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Name      role", lines[0])
	assert.Equal(t, strings.Repeat("─", 15), lines[1])
	assert.Equal(t, "Ana       nurse", lines[2])
	assert.Equal(t, "Benedict", lines[3])
}

func TestRenderTableRowNumbersAndWidth(t *testing.T) {
	cols := []columns.Descriptor{{ID: "note", Label: "Note"}}
	rows := []map[string]any{{"note": "a very long note"}, {"note": "short"}}

	out := RenderTable(cols, rows, TableOptions{NoColor: true, RowNumbers: true, FirstRow: 9, MaxColumnWidth: 8})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#   Note", lines[0])
	assert.Equal(t, " 9  a ver...", lines[2])
	assert.Equal(t, "10  short", lines[3])
}

func TestRenderTableNoColumns(t *testing.T) {
	assert.Equal(t, NoColumnsMessage+"\n", RenderTable(nil, []map[string]any{{"a": 1}}, TableOptions{}))
}

func TestRenderTableNoRows(t *testing.T) {
	out := RenderTable([]columns.Descriptor{{ID: "a"}}, nil, TableOptions{NoColor: true})
	assert.Equal(t, "a\n─\n", out)
}

func TestRenderTableColored(t *testing.T) {
	out := RenderTable([]columns.Descriptor{{ID: "a"}}, []map[string]any{{"a": "x"}}, TableOptions{})
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "a")
}

func TestRenderTableColorsArePerCall(t *testing.T) {
	cols := []columns.Descriptor{{ID: "a"}}
	rows := []map[string]any{{"a": "x"}}

	before := RenderTable(cols, rows, TableOptions{})
	custom := RenderTable(cols, rows, TableOptions{
		Colors: ParseTableColors("#ff0000", "#000000", "", "#00ff00", ""),
	})
	after := RenderTable(cols, rows, TableOptions{})

	assert.Contains(t, before, "\x1b[")
	assert.NotEqual(t, before, custom)
	assert.Equal(t, before, after, "custom colors do not leak into later renders")
	assert.NotContains(t, RenderTable(cols, rows, TableOptions{NoColor: true, Colors: ParseTableColors("1", "2", "3", "4", "5")}), "\x1b")
}

func TestParseTableColors(t *testing.T) {
	tc := ParseTableColors("12", "", "#ff8800", "", "240")
	assert.Equal(t, lipgloss.Color("12"), tc.HeaderFG)
	assert.Nil(t, tc.HeaderBG)
	assert.Equal(t, lipgloss.Color("#ff8800"), tc.KeyColor)
	assert.Nil(t, tc.ValueColor)
	assert.Equal(t, lipgloss.Color("240"), tc.SeparatorColor)
}

func TestRenderColumnList(t *testing.T) {
	live := []columns.Descriptor{
		{ID: "name", Label: "Name", Fixed: true},
		{ID: "role", Label: "Role"},
		{ID: "notes", Label: "Notes"},
	}
	cfg := columns.Config{
		Order:      []string{"role", "name", "notes"},
		Visibility: map[string]bool{"notes": false},
	}

	out := RenderColumnList(live, cfg, TableOptions{NoColor: true, RowNumbers: true})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"POS", "ID", "LABEL", "VISIBLE", "FIXED"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "role", "Role", "yes", "no"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"1", "name", "Name", "yes", "yes"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"2", "notes", "Notes", "no", "no"}, strings.Fields(lines[4]))
}

func TestEncodeSettings(t *testing.T) {
	s := columns.Settings{
		Order:      []string{"b", "a"},
		Visibility: map[string]bool{"a": false},
		UpdatedAt:  "2026-03-14T09:26:53.589Z",
	}

	t.Run("json", func(t *testing.T) {
		out, err := EncodeSettings(s, "JSON")
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []any{"b", "a"}, got["order"])
		assert.Equal(t, map[string]any{"a": false}, got["visibility"])
		assert.Equal(t, "2026-03-14T09:26:53.589Z", got["updatedAt"])
	})

	t.Run("yaml default", func(t *testing.T) {
		out, err := EncodeSettings(s, "")
		require.NoError(t, err)
		var got columns.Settings
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, s, got)
		assert.Contains(t, out, "updatedAt:")
	})

	t.Run("toml", func(t *testing.T) {
		out, err := EncodeSettings(s, "toml")
		require.NoError(t, err)
		var got columns.Settings
		require.NoError(t, toml.Unmarshal([]byte(out), &got))
		assert.Equal(t, s, got)
	})

	t.Run("empty settings", func(t *testing.T) {
		out, err := EncodeSettings(columns.Settings{}, "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"order": []`)
		assert.Contains(t, out, `"visibility": {}`)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := EncodeSettings(s, "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported output format")
	})
}
