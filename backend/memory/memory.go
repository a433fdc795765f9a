// Package memory provides a map-backed backend. It is the reference backend
// used by tests, examples and benchmarks.
package memory

import (
	"sync"

	"github.com/IvanBrykalov/syncache/backend"
)

// Cache stores values in a plain map. A single mutex makes concurrent calls
// for different keys safe (the coordinator above only serializes same-key
// conflicts); there is no per-key coordination here.
type Cache[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]V
}

// New returns an empty in-memory backend.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{m: make(map[K]V)}
}

// Contains reports whether k is present.
func (c *Cache[K, V]) Contains(k K) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[k]
	return ok, nil
}

// Get returns the stored value or backend.ErrNotFound.
func (c *Cache[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[k]
	if !ok {
		var zero V
		return zero, backend.ErrNotFound
	}
	return v, nil
}

// Put stores v under k and returns it unchanged (no normalization).
func (c *Cache[K, V]) Put(k K, v V) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = v
	return v, nil
}

// Remove deletes k. Absent keys are a no-op.
func (c *Cache[K, V]) Remove(k K) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, k)
	return nil
}

// GetOrCompute returns the stored value for k, computing and storing it on
// a miss. compute runs outside the map lock: the caller (the coordinator)
// already excludes same-key operations, and a slow compute must not block
// unrelated keys.
func (c *Cache[K, V]) GetOrCompute(k K, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	v, ok := c.m[k]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	return c.Put(k, v)
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

var (
	_ backend.Backend[string, int]  = (*Cache[string, int])(nil)
	_ backend.Computer[string, int] = (*Cache[string, int])(nil)
)
