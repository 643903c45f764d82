package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // CGO-free sqlite driver
)

// SQLiteStore is the zero-infrastructure durable adapter: a single file
// under the data directory, readable across process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the store file in dataDir.
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	path := filepath.Join(dataDir, "pitchkit.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// Serialized access keeps the single-writer model simple.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(
		`CREATE TABLE IF NOT EXISTS kv (
			bucket TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (bucket, key)
		)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, bucket, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE bucket = ? AND key = ?`, bucket, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s/%s: %w", bucket, key, err)
	}
	return value, true, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, bucket, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (bucket, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (bucket, key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		bucket, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Has implements Store.
func (s *SQLiteStore) Has(ctx context.Context, bucket, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM kv WHERE bucket = ? AND key = ?`, bucket, key,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
