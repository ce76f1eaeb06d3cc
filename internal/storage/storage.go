// Package storage provides small persisted key/value stores for globe's
// session and preferences.
package storage

import (
	"fmt"

	"github.com/dbmrq/globe/internal/config"
)

// Storage is a string key/value store.
// Get reports ok=false for a missing key; err is reserved for I/O failures.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(keys ...string) error
	Close() error
}

// Pather is implemented by backends that live in a single file.
type Pather interface {
	Path() string
}

// Open returns the backend selected by cfg.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case config.StorageFile, "":
		return NewFileStorage(cfg.Path), nil
	case config.StorageSQLite:
		return OpenSQLite(cfg.Path)
	case config.StorageMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
