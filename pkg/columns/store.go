package columns

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/oakwood-commons/tblcfg/pkg/logger"
)

// TimestampLayout is the ISO-8601 layout of Settings.UpdatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrNotLoaded is returned by Store operations called before Load.
	ErrNotLoaded = errors.New("table settings not loaded")
	// ErrPersist wraps storage failures reported by Save and Reset. The
	// in-memory configuration stays valid when it is returned.
	ErrPersist = errors.New("table settings not persisted")
	// ErrUnknownColumn is returned by Move for ids outside the current order.
	ErrUnknownColumn = errors.New("unknown column")
)

// Store holds the working configuration of one table identity.
//
// It is owned by one view at a time and is not safe for concurrent use.
// Mutations change memory only; Save is the only durable write.
type Store struct {
	adapter *Adapter
	now     func() time.Time

	loaded  bool
	tableID string
	live    []Descriptor
	cfg     Config
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for Settings.UpdatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an unloaded store persisting through adapter.
func NewStore(adapter *Adapter, opts ...StoreOption) *Store {
	s := &Store{adapter: adapter, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads stored settings for tableID and reconciles them with live.
// Missing or unreadable settings yield defaults. A malformed live list is
// logged as an error and reconciled anyway.
func (s *Store) Load(ctx context.Context, tableID string, live []Descriptor) {
	lgr := logger.FromContext(ctx).WithValues(logger.TableKey, tableID)
	if err := ValidateColumns(live); err != nil {
		lgr.Error(err, "live columns violate the unique id precondition")
	}

	stored := s.adapter.Read(ctx, tableID)
	s.tableID = tableID
	s.live = slices.Clone(live)
	s.cfg = Reconcile(stored, s.live)
	s.loaded = true
	lgr.V(1).Info("table settings loaded", "stored", stored != nil, "columns", len(s.cfg.Order))
}

// Loaded reports whether Load has run.
func (s *Store) Loaded() bool {
	return s.loaded
}

// TableID returns the loaded table identity.
func (s *Store) TableID() string {
	return s.tableID
}

// Live returns the live columns passed to Load.
func (s *Store) Live() []Descriptor {
	return slices.Clone(s.live)
}

// Config returns a copy of the working configuration.
func (s *Store) Config() Config {
	return s.cfg.Clone()
}

// Columns returns the visible columns in render order.
func (s *Store) Columns() []Descriptor {
	return Apply(s.live, s.cfg)
}

// Visible reports the effective visibility of id.
func (s *Store) Visible(id string) bool {
	return s.cfg.IsVisible(id)
}

// UpdateOrder replaces the column order. The caller supplies a permutation of
// the live ids; it is not validated here, Apply repairs anything else.
func (s *Store) UpdateOrder(order []string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.cfg.Order = slices.Clone(order)
	return nil
}

// Move places id at position pos (0-based, clamped) within the current order.
func (s *Store) Move(id string, pos int) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	from := slices.Index(s.cfg.Order, id)
	if from < 0 {
		return fmt.Errorf("move %q: %w", id, ErrUnknownColumn)
	}
	order := slices.Delete(slices.Clone(s.cfg.Order), from, from+1)
	pos = max(0, min(pos, len(order)))
	return s.UpdateOrder(slices.Insert(order, pos, id))
}

// ToggleVisibility flips the effective visibility of id and records it
// explicitly.
func (s *Store) ToggleVisibility(id string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.cfg.Visibility == nil {
		s.cfg.Visibility = map[string]bool{}
	}
	s.cfg.Visibility[id] = !s.cfg.IsVisible(id)
	return nil
}

// Save persists the working configuration with a fresh timestamp. A storage
// failure is logged as a warning and returned wrapped in ErrPersist; the
// working configuration is unaffected.
func (s *Store) Save(ctx context.Context) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	settings := Settings{
		Order:      slices.Clone(s.cfg.Order),
		Visibility: s.cfg.Clone().Visibility,
		UpdatedAt:  s.now().UTC().Format(TimestampLayout),
	}
	if err := s.adapter.Write(ctx, s.tableID, settings); err != nil {
		logger.Warn(logger.FromContext(ctx), err, "saving table settings failed; keeping them in memory", logger.TableKey, s.tableID)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	logger.FromContext(ctx).V(1).Info("table settings saved", logger.TableKey, s.tableID, "updatedAt", settings.UpdatedAt)
	return nil
}

// Reset discards stored settings and recomputes defaults. The defaults are
// applied even when the delete fails; that failure is returned wrapped in
// ErrPersist.
func (s *Store) Reset(ctx context.Context) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.cfg = Reconcile(nil, s.live)
	if err := s.adapter.Remove(ctx, s.tableID); err != nil {
		logger.Warn(logger.FromContext(ctx), err, "removing stored table settings failed", logger.TableKey, s.tableID)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
