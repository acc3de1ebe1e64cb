// Package sqlite implements settings.Store on a SQLite options table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store"
)

const schema = `CREATE TABLE IF NOT EXISTS ` + store.TableName + ` (
	option_name  TEXT PRIMARY KEY,
	option_value TEXT NOT NULL DEFAULT '{}',
	updated_at   TIMESTAMP NOT NULL
)`

// Store reads and writes settings blobs through database/sql.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ settings.Store = (*Store)(nil)

// Open opens the SQLite database at dsn and ensures the options table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection pool.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Migrate creates the options table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: create options table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get loads the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) (settings.Blob, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT option_value FROM `+store.TableName+` WHERE option_name = ?`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Blob{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	blob, err := store.DecodeBlob(raw)
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

// Set upserts the blob stored under key.
func (s *Store) Set(ctx context.Context, key string, blob settings.Blob) error {
	raw, err := store.EncodeBlob(blob)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+store.TableName+` (option_name, option_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(option_name) DO UPDATE SET option_value = excluded.option_value, updated_at = excluded.updated_at`,
		key, raw, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: set %q: %w", key, err)
	}
	return nil
}
