// Package ttl adapts jellydator/ttlcache to the backend contract. It exists
// to show where expiry belongs in this design: in the backend, not in the
// coordinator. The coordinator only serializes conflicting operations; an
// entry silently expiring between a Contains and a Get is indistinguishable
// from a plain miss.
package ttl

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/IvanBrykalov/syncache/backend"
)

// Cache wraps a ttlcache instance. ttlcache is internally synchronized, so
// concurrent calls for different keys are safe.
type Cache[K comparable, V any] struct {
	c *ttlcache.Cache[K, V]
}

// New returns a backend whose entries expire ttl after they were written.
// A non-positive ttl disables expiration. Call Stop when done to release
// the janitor goroutine.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	inner := ttlcache.New[K, V](
		ttlcache.WithTTL[K, V](ttl),
		ttlcache.WithDisableTouchOnHit[K, V](),
	)
	go inner.Start()
	return &Cache[K, V]{c: inner}
}

// Contains reports whether a live (non-expired) entry exists for k.
func (c *Cache[K, V]) Contains(k K) (bool, error) {
	return c.c.Has(k), nil
}

// Get returns the live value for k, or backend.ErrNotFound.
func (c *Cache[K, V]) Get(k K) (V, error) {
	item := c.c.Get(k)
	if item == nil {
		var zero V
		return zero, backend.ErrNotFound
	}
	return item.Value(), nil
}

// Put stores v under k with the cache-wide TTL and returns it unchanged.
func (c *Cache[K, V]) Put(k K, v V) (V, error) {
	c.c.Set(k, v, ttlcache.DefaultTTL)
	return v, nil
}

// Remove deletes k. Absent keys are a no-op.
func (c *Cache[K, V]) Remove(k K) error {
	c.c.Delete(k)
	return nil
}

// Stop shuts down the expiration janitor started by New.
func (c *Cache[K, V]) Stop() {
	c.c.Stop()
}

var _ backend.Backend[string, int] = (*Cache[string, int])(nil)
