// Package postgres implements settings.Store on a PostgreSQL options table.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store reads and writes settings blobs in PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ settings.Store = (*Store)(nil)

// New opens a connection to the database at databaseURL, configures the pool
// and runs pending migrations.
func New(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: run migrations: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection pool without running migrations.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get loads the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) (settings.Blob, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT option_value::text FROM `+store.TableName+` WHERE option_name = $1`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Blob{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres: get %q: %w", key, err)
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
		`INSERT INTO `+store.TableName+` (option_name, option_value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (option_name) DO UPDATE SET option_value = EXCLUDED.option_value, updated_at = now()`,
		key, raw,
	)
	if err != nil {
		return fmt.Errorf("postgres: set %q: %w", key, err)
	}
	return nil
}
