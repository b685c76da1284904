// Package records loads record rows for table rendering from JSON, NDJSON,
// YAML and TOML input.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Row is one record keyed by column id.
type Row = map[string]any

// LoadFile reads path ("-" for stdin is handled by the caller) and returns its
// rows. The extension picks the format when it is recognized; otherwise the
// content is sniffed.
func LoadFile(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return fromDocs(loadJSON(data))
	case ".ndjson", ".jsonl":
		return fromDocs(loadNDJSON(data))
	case ".yaml", ".yml":
		return fromDocs(loadMultiDocYAML(data))
	case ".toml":
		return fromDocs(loadTOML(data))
	}
	return Load(data)
}

// LoadReader reads all of r and returns its rows.
func LoadReader(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Load detects the format of data and returns its rows.
//
// A top-level array yields one row per element. A top-level object holding a
// single array of objects (a TOML [[rows]] table, or {"staff": [...]}) yields
// that array. Any other object is a single row. Multi-document YAML and NDJSON
// yield one row per document.
func Load(data []byte) ([]Row, error) {
	input := bytes.TrimSpace(data)
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	switch {
	case bytes.HasPrefix(input, []byte("---")) || bytes.Contains(input, []byte("\n---")):
		return fromDocs(loadMultiDocYAML(input))
	case isLikelyNDJSON(input):
		return fromDocs(loadNDJSON(input))
	case input[0] == '{' || input[0] == '[':
		if docs, err := loadJSON(input); err == nil {
			return fromDocs(docs, nil)
		}
		// "[[rows]]" and "[section]" are TOML, not JSON.
		return fromDocs(loadTOML(input))
	case isLikelyTOML(input):
		return fromDocs(loadTOML(input))
	default:
		return fromDocs(loadMultiDocYAML(input))
	}
}

func loadJSON(input []byte) ([]any, error) {
	var data any
	if err := json.Unmarshal(input, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []any{data}, nil
}

func loadNDJSON(input []byte) ([]any, error) {
	lines := bytes.Split(input, []byte("\n"))
	results := make([]any, 0, len(lines))
	for i, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var obj any
		if err := json.Unmarshal(line, &obj); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", i+1, err)
		}
		results = append(results, obj)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

func loadMultiDocYAML(input []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(input))
	var results []any
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

func loadTOML(input []byte) ([]any, error) {
	var data map[string]any
	if err := toml.Unmarshal(input, &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}

// isLikelyNDJSON reports whether every non-blank line is a JSON object and
// there is more than one of them.
func isLikelyNDJSON(input []byte) bool {
	count := 0
	for _, line := range bytes.Split(input, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] != '{' || line[len(line)-1] != '}' || !json.Valid(line) {
			return false
		}
		count++
	}
	return count > 1
}

// isLikelyTOML looks for a table header or a bare key = value line.
func isLikelyTOML(input []byte) bool {
	for _, line := range bytes.Split(input, []byte("\n")) {
		s := strings.TrimSpace(string(line))
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			return true
		}
		if k, _, ok := strings.Cut(s, "="); ok && !strings.Contains(k, ":") && strings.TrimSpace(k) != "" {
			return true
		}
		return false
	}
	return false
}

func fromDocs(docs []any, err error) ([]Row, error) {
	if err != nil {
		return nil, err
	}
	if len(docs) == 1 {
		return rowsFromValue(docs[0])
	}
	rows := make([]Row, 0, len(docs))
	for i, doc := range docs {
		row, ok := asRow(doc)
		if !ok {
			return nil, fmt.Errorf("document %d is %T, not an object", i+1, doc)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowsFromValue(v any) ([]Row, error) {
	switch val := v.(type) {
	case []any:
		return rowsFromList(val)
	case map[string]any:
		if len(val) == 1 {
			for _, inner := range val {
				if list, ok := inner.([]any); ok {
					return rowsFromList(list)
				}
				if list, ok := inner.([]map[string]any); ok {
					return list, nil
				}
			}
		}
		return []Row{val}, nil
	default:
		return nil, fmt.Errorf("records must be an object or a list of objects, got %T", v)
	}
}

func rowsFromList(list []any) ([]Row, error) {
	rows := make([]Row, 0, len(list))
	for i, item := range list {
		row, ok := asRow(item)
		if !ok {
			return nil, fmt.Errorf("record %d is %T, not an object", i+1, item)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func asRow(v any) (Row, bool) {
	row, ok := v.(map[string]any)
	return row, ok
}

// Fields returns the union of keys across rows, sorted. Used to suggest
// column ids for tables without a configured column list.
func Fields(rows []Row) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
