// Package backend defines the storage contract consumed by the coordinator
// in package cache. A backend is a plain, sequential key/value store: it is
// never required to coordinate concurrent operations on the same key — that
// is the coordinator's job. It must, however, tolerate concurrent calls for
// *different* keys, because the coordinator only serializes same-key
// conflicts and invokes the backend without holding any lock.
package backend

import "errors"

var (
	// ErrNotFound is returned by Get when the backend has no value for the key.
	ErrNotFound = errors.New("backend: key not found")

	// ErrInvalidKey is returned when a key violates backend-specific
	// constraints (e.g. a disk backend rejecting path separators).
	ErrInvalidKey = errors.New("backend: invalid key")
)

// Backend is the minimal store wrapped by the coordinator.
//
// Values are owned: whatever Get or Put hands back must be safe to use after
// the call returns. Backends commit to one value representation (e.g. the
// disk backend commits to []byte buffers); they never return live handles
// into internal state.
type Backend[K comparable, V any] interface {
	// Contains reports whether a value exists for k. No side effects;
	// safe to call at any time.
	Contains(k K) (bool, error)

	// Get returns the value stored for k, or ErrNotFound.
	Get(k K) (V, error)

	// Put stores v under k and returns the effectively-stored value.
	// A backend may normalize the value (e.g. copy it into an owned buffer).
	Put(k K, v V) (V, error)

	// Remove deletes k. Removing an absent key is a no-op, not an error.
	Remove(k K) error
}

// Computer is an optional native compute-if-absent primitive. Backends that
// can do better than the coordinator's contains→compute→put fallback (e.g.
// avoiding a second read of a freshly-written value) implement it.
//
// The backend may assume the coordinator has already excluded every other
// same-key operation for the duration of the call; GetOrCompute itself does
// not need to be atomic.
type Computer[K comparable, V any] interface {
	// GetOrCompute returns the stored value for k, or invokes compute and
	// stores its result. compute is invoked at most once.
	GetOrCompute(k K, compute func() (V, error)) (V, error)
}

// KeyValidator is implemented by backends with key-format constraints.
// The coordinator calls ValidateKey before acquiring any per-key slot, so
// malformed keys fail fast without touching the wait protocol.
type KeyValidator[K comparable] interface {
	ValidateKey(k K) error
}
