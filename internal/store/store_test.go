package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewTTLCache[string](time.Hour)
	cache.now = func() time.Time { return current }

	_, ok := cache.Get("theme:acme.com")
	assert.False(t, ok)

	cache.Put("theme:acme.com", "site_css")

	v, ok := cache.Get("theme:acme.com")
	require.True(t, ok)
	assert.Equal(t, "site_css", v)

	// Still fresh just inside the TTL.
	current = current.Add(59 * time.Minute)
	_, ok = cache.Get("theme:acme.com")
	assert.True(t, ok)

	// Expired once the TTL passes.
	current = current.Add(2 * time.Minute)
	_, ok = cache.Get("theme:acme.com")
	assert.False(t, ok)

	// A fresh Put after expiry resets the clock.
	cache.Put("theme:acme.com", "favicon")
	v, ok = cache.Get("theme:acme.com")
	require.True(t, ok)
	assert.Equal(t, "favicon", v)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, ok, err := m.Get(ctx, BucketJobs, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, BucketJobs, "j1", []byte(`{"id":"j1"}`)))

	v, ok, err := m.Get(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"j1"}`, string(v))

	has, err := m.Has(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	assert.True(t, has)

	// Same key in another bucket is independent.
	has, err = m.Has(ctx, BucketPlans, "j1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	original := []byte("abc")
	require.NoError(t, m.Put(ctx, BucketJobs, "k", original))
	original[0] = 'x'

	v, ok, err := m.Get(ctx, BucketJobs, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(v), "caller mutations must not reach the store")

	v[0] = 'z'
	v2, _, _ := m.Get(ctx, BucketJobs, "k")
	assert.Equal(t, "abc", string(v2), "returned slices are copies")
}

func TestLayeredBackfillsMemoryOnDurableHit(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	require.NoError(t, durable.Put(ctx, BucketJobs, "j1", []byte("persisted")))

	l := NewLayered(durable)

	v, ok, err := l.Get(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", string(v))

	// The durable hit was backfilled: the memory layer now answers alone.
	memHas, err := l.mem.Has(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	assert.True(t, memHas)
}

func TestLayeredPutWritesBothLayers(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	l := NewLayered(durable)

	require.NoError(t, l.Put(ctx, BucketPlans, "idea-1", []byte("plan")))

	has, err := durable.Has(ctx, BucketPlans, "idea-1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = l.Has(ctx, BucketPlans, "idea-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenSQLite(dir)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, BucketJobs, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, BucketJobs, "j1", []byte(`{"status":"done"}`)))
	require.NoError(t, s.Put(ctx, BucketJobs, "j1", []byte(`{"status":"failed"}`)))

	v, ok, err := s.Get(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"status":"failed"}`, string(v), "puts overwrite")

	has, err := s.Has(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	assert.True(t, has)
	require.NoError(t, s.Close())

	// Values survive a reopen of the same data directory.
	s2, err := OpenSQLite(dir)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err = s2.Get(ctx, BucketJobs, "j1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"status":"failed"}`, string(v))
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Kind: "idea", ID: "abc"}
	assert.Equal(t, "idea abc not found", err.Error())
}
