package cache

// Cache is a concurrency-coordinating façade over a sequential storage
// backend. All methods are safe for concurrent use by multiple goroutines.
//
// Per key, reads may overlap other reads; writes exclude everything else.
// Operations on different keys never wait on each other. The only blocking a
// caller can observe is waiting for a conflicting same-key operation to
// finish, which is not an error.
type Cache[K comparable, V any] interface {
	// Contains reports whether the backend has a value for k. Membership
	// checks are treated as non-conflicting: the call goes straight to the
	// backend without joining the per-key wait protocol.
	Contains(k K) (bool, error)

	// Get returns the backend's value for k, or backend.ErrNotFound.
	// Blocks while a writer for k is in flight; runs concurrently with
	// other readers of k.
	Get(k K) (V, error)

	// Put stores v under k and returns the effectively-stored value
	// (a backend may normalize it). Blocks until k is idle, then excludes
	// every other operation on k for the duration of the backend call.
	Put(k K, v V) (V, error)

	// Remove deletes k from the backend. Removing an absent key is a
	// no-op, not an error. Same exclusion protocol as Put.
	Remove(k K) error

	// GetOrCompute returns the value for k, invoking compute and storing
	// its result on a miss. Concurrent callers racing on the same absent
	// key trigger exactly one compute; the losers observe the winner's
	// stored value. Same exclusion protocol as Put.
	GetOrCompute(k K, compute func() (V, error)) (V, error)
}
