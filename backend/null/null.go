// Package null provides a backend that stores nothing. It is useful for
// disabling caching without changing caller code: writes are discarded and
// every read misses.
package null

import "github.com/IvanBrykalov/syncache/backend"

// Cache discards all writes. Stateless, so the zero value is ready to use
// and safe for concurrent use.
type Cache[K comparable, V any] struct{}

// New returns a backend that stores nothing.
func New[K comparable, V any]() Cache[K, V] { return Cache[K, V]{} }

// Contains always reports false.
func (Cache[K, V]) Contains(K) (bool, error) { return false, nil }

// Get always returns backend.ErrNotFound.
func (Cache[K, V]) Get(K) (V, error) {
	var zero V
	return zero, backend.ErrNotFound
}

// Put discards the value and returns it unchanged.
func (Cache[K, V]) Put(_ K, v V) (V, error) { return v, nil }

// Remove is a no-op.
func (Cache[K, V]) Remove(K) error { return nil }

// GetOrCompute always invokes compute and returns its result without storing.
func (Cache[K, V]) GetOrCompute(_ K, compute func() (V, error)) (V, error) {
	return compute()
}

var (
	_ backend.Backend[string, int]  = Cache[string, int]{}
	_ backend.Computer[string, int] = Cache[string, int]{}
)
