// Package store keeps the host-side update caches ("site transients") keyed
// by the asset kind's transient key.
package store

import (
	"context"
	"strings"

	"github.com/git-pkgs/wpupdates/internal/core"
)

// Store defines the interface for transient storage. It satisfies
// core.Transients so a force-check can clear an entry directly.
type Store interface {
	// Initialize prepares the storage (e.g., creates tables).
	Initialize(ctx context.Context) error

	// Get returns the cache stored under key. A missing entry is reported
	// with ok == false and a zero cache, not an error.
	Get(ctx context.Context, key string) (cache core.UpdateCache, ok bool, err error)

	// Set stores cache under key, replacing any earlier value.
	Set(ctx context.Context, key string, cache core.UpdateCache) error

	// Delete removes the entry under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the storage.
	Close() error
}

// Open returns the store for dsn and initializes it:
//   - "" or "memory" is an in-process map
//   - libsql://, http://, https://, ws:// and wss:// URLs use the libsql client
//   - anything else is a sqlite database file (or "file:" URI)
func Open(ctx context.Context, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch {
	case dsn == "" || dsn == "memory":
		s = NewMemory()
	case isRemote(dsn):
		s, err = NewLibSQL(dsn)
	default:
		s, err = NewSQLite(dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func isRemote(dsn string) bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}
