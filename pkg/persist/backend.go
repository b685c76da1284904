// Package persist provides key-value backends for small persisted blobs such
// as table settings: an in-memory map, a single JSON file, and SQLite.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by Put when a size-limited backend is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage is closed")
)

// Backend is a string-keyed blob store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

var (
	_ Lister = (*Memory)(nil)
	_ Lister = (*File)(nil)
	_ Lister = (*SQLite)(nil)
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverMemory, DriverFile, DriverSQLite}
}

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is the file or database location for file and sqlite drivers.
	Path string
	// MaxBytes caps the total stored bytes for the memory driver. 0 = no cap.
	MaxBytes int
}

// Open returns the backend named by opts.Driver.
func Open(opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverMemory, "":
		return NewMemory(opts.MaxBytes), nil
	case DriverFile:
		return OpenFile(opts.Path)
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (expected one of %s)", opts.Driver, strings.Join(Drivers(), ", "))
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
