package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/git-pkgs/wpupdates/internal/core"
)

// SQL implements Store on a database/sql handle. Each cache is stored as
// its JSON document in the transients table.
type SQL struct {
	db *sql.DB
}

// NewSQLite opens a sqlite database file.
func NewSQLite(path string) (*SQL, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	return &SQL{db: db}, nil
}

// NewLibSQL opens a remote libsql database.
func NewLibSQL(url string) (*SQL, error) {
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQL{db: db}, nil
}

// Initialize creates the database schema.
func (s *SQL) Initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transients (
			key TEXT NOT NULL PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create transients table: %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (core.UpdateCache, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM transients WHERE key = ?
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UpdateCache{}, false, nil
	}
	if err != nil {
		return core.UpdateCache{}, false, fmt.Errorf("failed to get transient %s: %w", key, err)
	}

	var cache core.UpdateCache
	if err := json.Unmarshal([]byte(value), &cache); err != nil {
		return core.UpdateCache{}, false, fmt.Errorf("failed to decode transient %s: %w", key, err)
	}
	return cache, true, nil
}

func (s *SQL) Set(ctx context.Context, key string, cache core.UpdateCache) error {
	value, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to encode transient %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transients (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set transient %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transients WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete transient %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.db.Close()
}
