// Package columns keeps a per-table column order and visibility map,
// reconciles it against the columns a view currently offers, and persists it
// through a key-value backend.
//
// Reconcile and Apply are pure. Store is the stateful wrapper a single view
// owns for one table identity.
package columns

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultVisibleCount is how many leading columns are visible when a column
// does not state DefaultVisible explicitly.
const DefaultVisibleCount = 5

var (
	// ErrDuplicateColumn reports a live column list that repeats an id.
	ErrDuplicateColumn = errors.New("duplicate column id")
	// ErrEmptyColumnID reports a live column without an id.
	ErrEmptyColumnID = errors.New("empty column id")
)

// Descriptor describes one column a table view can render. ID identifies the
// column across sessions; Label is presentation only.
type Descriptor struct {
	ID             string
	Label          string
	DefaultVisible *bool
	// Fixed marks columns the view should never hide. Reconcile and Apply
	// do not enforce it.
	Fixed bool
}

// Title returns the label, or the id when no label is set.
func (d Descriptor) Title() string {
	if strings.TrimSpace(d.Label) != "" {
		return d.Label
	}
	return d.ID
}

// Visible returns a pointer to v, for building descriptors inline.
func Visible(v bool) *bool {
	return &v
}

// Config is the working configuration driving a table's rendering.
type Config struct {
	Order      []string
	Visibility map[string]bool
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := Config{
		Order:      slices.Clone(c.Order),
		Visibility: maps.Clone(c.Visibility),
	}
	if out.Order == nil {
		out.Order = []string{}
	}
	if out.Visibility == nil {
		out.Visibility = map[string]bool{}
	}
	return out
}

// IsVisible reports the effective visibility of id. Ids missing from the
// visibility map are visible.
func (c Config) IsVisible(id string) bool {
	v, ok := c.Visibility[id]
	return !ok || v
}

// Settings is the persisted form of a Config.
type Settings struct {
	Order      []string        `json:"order" yaml:"order" toml:"order"`
	Visibility map[string]bool `json:"visibility" yaml:"visibility" toml:"visibility"`
	UpdatedAt  string          `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

// Config returns the order/visibility pair of s.
func (s Settings) Config() Config {
	return Config{Order: s.Order, Visibility: s.Visibility}.Clone()
}

// ValidateColumns checks the live column precondition: every id present and
// unique. Reconcile tolerates violations; callers use this to surface them.
func ValidateColumns(live []Descriptor) error {
	seen := make(map[string]int, len(live))
	var errs []error
	for i, col := range live {
		if col.ID == "" {
			errs = append(errs, fmt.Errorf("column %d: %w", i, ErrEmptyColumnID))
			continue
		}
		if first, ok := seen[col.ID]; ok {
			errs = append(errs, fmt.Errorf("column %q at %d and %d: %w", col.ID, first, i, ErrDuplicateColumn))
			continue
		}
		seen[col.ID] = i
	}
	return errors.Join(errs...)
}

// IDs returns the column ids of live in order, skipping repeats.
func IDs(live []Descriptor) []string {
	ids := make([]string, 0, len(live))
	seen := make(map[string]struct{}, len(live))
	for _, col := range live {
		if _, ok := seen[col.ID]; ok {
			continue
		}
		seen[col.ID] = struct{}{}
		ids = append(ids, col.ID)
	}
	return ids
}
