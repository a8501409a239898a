package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/hostel-desk/internal/persistence"
	_ "modernc.org/sqlite"
)

// Store implements persistence.RecordStore on a single-file SQLite database.
// Records live in one key/value table so the on-disk layout mirrors the four
// flat state records rather than a relational schema.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the database identified by dsn and ensures the records
// table exists. The schema is created idempotently; there is no migration
// versioning because the stored values carry no schema of their own.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: empty dsn")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	// A single local operator writes through one connection; more would only
	// invite SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: create records table: %w", mapError(err))
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM records WHERE key = ?`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, s.now().UTC().Format(time.RFC3339)); err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes the record stored under key. Deleting an absent key is not
// an error; the caller only cares that the record is gone.
func (s *Store) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM records WHERE key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError folds driver failures into the persistence taxonomy. Anything that
// is not a well-known sentinel is treated as the store being unavailable,
// because from the session's point of view that is what it is.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, persistence.ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
}
