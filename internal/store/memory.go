package store

import (
	"context"
	"sync"
	"time"
)

// TTLCache is a process-wide cache with time-to-live invalidation.
// Entries are immutable once written, so a plain mutex around the map is
// all the locking required.
type TTLCache[V any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[V]
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// NewTTLCache creates a cache whose entries expire after ttl.
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and fresh.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expires) {
		if ok {
			delete(c.entries, key)
		}
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Put inserts a value with the cache's TTL.
func (c *TTLCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// MemoryStore is an in-memory Store used as the first layer of Layered
// and standalone in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func memKey(bucket, key string) string { return bucket + "/" + key }

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[memKey(bucket, key)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, bucket, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[memKey(bucket, key)] = v
	return nil
}

// Has implements Store.
func (m *MemoryStore) Has(_ context.Context, bucket, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[memKey(bucket, key)]
	return ok, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
