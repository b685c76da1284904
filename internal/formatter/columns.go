package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tblcfg/pkg/columns"
)

// Output formats accepted by EncodeSettings.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Formats lists the accepted EncodeSettings formats.
func Formats() []string {
	return []string{FormatYAML, FormatJSON, FormatTOML}
}

// RenderColumnList renders every live column in configured order with its
// visibility, hidden columns included. Only the color settings of opts apply.
func RenderColumnList(live []columns.Descriptor, cfg columns.Config, opts TableOptions) string {
	ordered := columns.Ordered(live, cfg)
	rows := make([]map[string]any, 0, len(ordered))
	for i, col := range ordered {
		rows = append(rows, map[string]any{
			"pos":     i,
			"id":      col.ID,
			"label":   col.Label,
			"visible": yesNo(cfg.IsVisible(col.ID)),
			"fixed":   yesNo(col.Fixed),
		})
	}
	header := []columns.Descriptor{
		{ID: "pos", Label: "POS"},
		{ID: "id", Label: "ID"},
		{ID: "label", Label: "LABEL"},
		{ID: "visible", Label: "VISIBLE"},
		{ID: "fixed", Label: "FIXED"},
	}
	return RenderTable(header, rows, TableOptions{NoColor: opts.NoColor, Colors: opts.Colors})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EncodeSettings renders a settings record in one of Formats. The JSON form
// matches the persisted blob, indented.
func EncodeSettings(s columns.Settings, format string) (string, error) {
	if s.Visibility == nil {
		s.Visibility = map[string]bool{}
	}
	if s.Order == nil {
		s.Order = []string{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	case FormatJSON:
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(b) + "\n", nil
	case FormatTOML:
		b, err := toml.Marshal(s)
		if err != nil {
			return "", fmt.Errorf("encode toml: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use %s)", format, strings.Join(Formats(), ", "))
	}
}
