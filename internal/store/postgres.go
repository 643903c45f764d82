package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the durable adapter for deployments with a database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool and ensures the kv table exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS pitchkit_kv (
			bucket TEXT NOT NULL,
			key TEXT NOT NULL,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (bucket, key)
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, bucket, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM pitchkit_kv WHERE bucket = $1 AND key = $2`,
		bucket, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s/%s: %w", bucket, key, err)
	}
	return value, true, nil
}

// Put implements Store.
func (s *PostgresStore) Put(ctx context.Context, bucket, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pitchkit_kv (bucket, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (bucket, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		bucket, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Has implements Store.
func (s *PostgresStore) Has(ctx context.Context, bucket, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pitchkit_kv WHERE bucket = $1 AND key = $2)`,
		bucket, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s/%s: %w", bucket, key, err)
	}
	return exists, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
