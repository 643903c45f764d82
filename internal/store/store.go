// Package store provides the persistence and caching layer: a typed
// in-process TTL cache for derived values (themes, search results) and a
// durable key-value store for jobs and build plans, backed by Postgres or
// a local SQLite file.
package store

import (
	"context"
	"fmt"
)

// Buckets used by the rest of the system.
const (
	BucketJobs  = "jobs"
	BucketPlans = "plans"
)

// Store is a durable key-value store. Values are opaque JSON blobs.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, bool, error)
	Put(ctx context.Context, bucket, key string, value []byte) error
	Has(ctx context.Context, bucket, key string) (bool, error)
	Close() error
}

// NotFoundError marks a lookup for an id that does not exist anywhere.
// This is a user-facing category: retrying cannot recover lost state.
type NotFoundError struct {
	Kind string // "job", "idea", "plan"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
