package store

import (
	"context"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
)

// Layered tries the in-memory layer first and falls back to the durable
// layer on miss, backfilling memory so a process restart only pays the
// durable read once per key.
type Layered struct {
	mem     *MemoryStore
	durable Store
}

// NewLayered wraps a durable store with an in-memory first layer.
func NewLayered(durable Store) *Layered {
	return &Layered{mem: NewMemoryStore(), durable: durable}
}

// Open builds the durable store from configuration: Postgres when
// DATABASE_URL is set, otherwise a SQLite file under the data directory.
func Open(ctx context.Context, cfg *config.Config) (*Layered, error) {
	var durable Store
	var err error
	if cfg.DatabaseURL != "" {
		durable, err = OpenPostgres(ctx, cfg.DatabaseURL)
	} else {
		durable, err = OpenSQLite(cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}
	return NewLayered(durable), nil
}

// Get implements Store.
func (l *Layered) Get(ctx context.Context, bucket, key string) ([]byte, bool, error) {
	if v, ok, _ := l.mem.Get(ctx, bucket, key); ok {
		return v, true, nil
	}
	v, ok, err := l.durable.Get(ctx, bucket, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = l.mem.Put(ctx, bucket, key, v)
	return v, true, nil
}

// Put implements Store. The write goes to both layers; a durable write
// failure is returned because losing it would break restart recovery.
func (l *Layered) Put(ctx context.Context, bucket, key string, value []byte) error {
	if err := l.durable.Put(ctx, bucket, key, value); err != nil {
		return err
	}
	return l.mem.Put(ctx, bucket, key, value)
}

// Has implements Store.
func (l *Layered) Has(ctx context.Context, bucket, key string) (bool, error) {
	if ok, _ := l.mem.Has(ctx, bucket, key); ok {
		return true, nil
	}
	return l.durable.Has(ctx, bucket, key)
}

// Close implements Store.
func (l *Layered) Close() error {
	return l.durable.Close()
}
