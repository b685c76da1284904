package formatter

import (
	"encoding/json"
	"fmt"
	"image/color"
	"reflect"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")
)

// Ellipsis marks a cell that was cut to fit its column.
const Ellipsis = "..."

// TableColors controls the rendered colors for tables and column lists.
// Nil fields fall back to the defaults (ANSI 256 codes).
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

// ParseTableColors builds TableColors from color strings as lipgloss accepts
// them ("12", "#ff8800"). Empty strings keep the default.
func ParseTableColors(headerFG, headerBG, key, value, separator string) TableColors {
	parse := func(s string) color.Color {
		if s == "" {
			return nil
		}
		return lipgloss.Color(s)
	}
	return TableColors{
		HeaderFG:       parse(headerFG),
		HeaderBG:       parse(headerBG),
		KeyColor:       parse(key),
		ValueColor:     parse(value),
		SeparatorColor: parse(separator),
	}
}

// theme is the set of styles one render uses.
type theme struct {
	header    lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	separator lipgloss.Style
}

func newTheme(tc TableColors) theme {
	pick := func(c, fallback color.Color) color.Color {
		if c == nil {
			return fallback
		}
		return c
	}
	return theme{
		header: lipgloss.NewStyle().Bold(true).
			Foreground(pick(tc.HeaderFG, defaultHeaderFG)).
			Background(pick(tc.HeaderBG, defaultHeaderBG)),
		key:       lipgloss.NewStyle().Foreground(pick(tc.KeyColor, defaultKeyColor)),
		value:     lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValueColor)),
		separator: lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator)),
	}
}

// Stringify returns a compact single-line representation of a record value.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return flatten(t)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	case map[string]any, []any:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only composite kinds need JSON
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	case reflect.Ptr:
		if !rv.IsNil() {
			return Stringify(rv.Elem().Interface())
		}
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// flatten keeps table cells on one line by escaping line breaks.
func flatten(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", "\\n")
}

// truncate cuts s to maxLen display cells, ending in an ellipsis when there is
// room for one.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= len(Ellipsis) {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, Ellipsis)
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
