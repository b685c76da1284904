package columns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/tblcfg/pkg/logger"
	"github.com/oakwood-commons/tblcfg/pkg/persist"
)

// KeyPrefix is prepended to a table identity to form its storage key.
const KeyPrefix = "table-settings:"

// Key returns the storage key for tableID.
func Key(tableID string) string {
	return KeyPrefix + tableID
}

// TableIDFromKey reverses Key. ok is false for keys outside the prefix.
func TableIDFromKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Adapter reads and writes Settings blobs in a persist.Backend.
type Adapter struct {
	backend persist.Backend
}

// NewAdapter wraps backend.
func NewAdapter(backend persist.Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Read returns the stored settings for tableID, or nil when the key is
// missing, the backend cannot be read, or the blob does not decode. Failures
// are logged at debug verbosity and otherwise treated as "nothing stored".
func (a *Adapter) Read(ctx context.Context, tableID string) *Settings {
	lgr := logger.FromContext(ctx).WithValues(logger.TableKey, tableID)
	if a == nil || a.backend == nil {
		return nil
	}
	data, err := a.backend.Get(ctx, Key(tableID))
	if errors.Is(err, persist.ErrNotFound) {
		return nil
	}
	if err != nil {
		lgr.V(1).Info("reading stored settings failed; using defaults", logger.ErrorKey, err.Error())
		return nil
	}
	s, err := DecodeSettings(data)
	if err != nil {
		lgr.V(1).Info("stored settings are malformed; using defaults", logger.ErrorKey, err.Error())
		return nil
	}
	return s
}

// Write stores s for tableID.
func (a *Adapter) Write(ctx context.Context, tableID string, s Settings) error {
	if a == nil || a.backend == nil {
		return fmt.Errorf("write %s: no storage configured", Key(tableID))
	}
	data, err := EncodeSettings(s)
	if err != nil {
		return err
	}
	if err := a.backend.Put(ctx, Key(tableID), data); err != nil {
		return fmt.Errorf("write %s: %w", Key(tableID), err)
	}
	return nil
}

// Remove deletes the stored settings for tableID.
func (a *Adapter) Remove(ctx context.Context, tableID string) error {
	if a == nil || a.backend == nil {
		return fmt.Errorf("remove %s: no storage configured", Key(tableID))
	}
	if err := a.backend.Delete(ctx, Key(tableID)); err != nil {
		return fmt.Errorf("remove %s: %w", Key(tableID), err)
	}
	return nil
}

// StoredTables lists the table identities that have stored settings, when the
// backend can enumerate keys.
func (a *Adapter) StoredTables(ctx context.Context) ([]string, error) {
	if a == nil || a.backend == nil {
		return nil, errors.New("list stored tables: no storage configured")
	}
	lister, ok := a.backend.(persist.Lister)
	if !ok {
		return nil, fmt.Errorf("storage backend %T cannot list keys", a.backend)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if id, ok := TableIDFromKey(k); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// EncodeSettings serializes s as the JSON blob stored per table.
func EncodeSettings(s Settings) ([]byte, error) {
	if s.Order == nil {
		s.Order = []string{}
	}
	if s.Visibility == nil {
		s.Visibility = map[string]bool{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

// DecodeSettings parses a stored blob. Empty ids and repeated order entries
// are dropped; a blob that is not a JSON object is an error.
func DecodeSettings(data []byte) (*Settings, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("decode settings: expected a JSON object")
	}
	var s Settings
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	order := make([]string, 0, len(s.Order))
	seen := make(map[string]struct{}, len(s.Order))
	for _, id := range s.Order {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}
	s.Order = order
	if s.Visibility == nil {
		s.Visibility = map[string]bool{}
	}
	delete(s.Visibility, "")
	return &s, nil
}
