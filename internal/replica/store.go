// Package replica wraps the locally replicated copy of the platform dataset.
// The store is read-mostly: screens query it, the synchronization side (or the
// loopback write client standing in for it) applies changes through Apply so
// subscribers hear about them.
package replica

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the local replica database plus its change hub.
type Store struct {
	db  *sql.DB
	hub *Hub
}

// Open opens sqlite with sensible defaults.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open replica: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return &Store{db: db, hub: NewHub()}, nil
}

// OpenMemory opens a throwaway in-memory replica, used by tests and the demo seed.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// DB exposes the underlying handle for query code.
func (s *Store) DB() *sql.DB { return s.db }

// Hub exposes the change-notification hub.
func (s *Store) Hub() *Hub { return s.hub }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Query runs a read-only query against the replica.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("replica query: %w", err)
	}
	return rows, nil
}

// Apply runs fn in a transaction and, on success, publishes a change for the
// named tables. This is the only mutation path; the list engine itself never
// writes to the replica.
func (s *Store) Apply(ctx context.Context, fn func(tx *sql.Tx) error, tables ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for _, t := range tables {
		s.hub.Publish(Change{Table: t})
	}
	return nil
}

// Now returns UTC time truncated to seconds (consistent with SQLite default).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
