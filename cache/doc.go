// Package cache provides a thread-safe coordination layer over a sequential
// storage backend: per-key reader/writer exclusion plus single-flight
// compute-on-miss, with the backend itself kept free of any concurrency
// obligations for same-key conflicts.
//
// Design
//
//   - Key state: a table maps each in-flight key to a signed counter
//     (n > 0 readers, -1 one writer, absent = idle). The table holds one
//     mutex and one condition variable per shard — not per key — so memory
//     stays bounded no matter how many keys pass through. With the default
//     of a single shard this is exactly the classic monitor design: every
//     transition contends on one briefly-held lock.
//
//   - Blocking: a conflicting caller parks on the shard's condition variable
//     and re-checks its predicate on every wake. Every retire broadcasts.
//     This is the only place the coordinator blocks; fairness between
//     queued writers is not promised, only mutual exclusion.
//
//   - Backend calls run with no lock held. A slow Get or Put for one key
//     never delays operations on other keys, and never delays other readers
//     of the same key from registering.
//
//   - Unconditional retire: slot release and the wake-up broadcast run in a
//     deferred step around the backend call, so a backend error can never
//     leave a permanently claimed reader or writer slot. Backend errors
//     reach the caller unchanged.
//
//   - GetOrCompute takes the writer slot, then uses the backend's native
//     compute-if-absent primitive (backend.Computer) when available, or a
//     contains→compute→put fallback otherwise. Either way, callers racing
//     on the same absent key trigger exactly one compute.
//
//   - Sharding: Options.Shards > 1 splits the key-state table by key hash
//     into independent mutex+cond shards. This relieves contention on the
//     transition lock under heavy parallelism; the per-key contract is the
//     same at any shard count.
//
// Known boundary
//
// The coordinator's protection covers the backend call, not downstream
// consumption. Once Get returns, its reader slot is already retired; if a
// backend hands back a value that lazily reads shared state (instead of an
// owned buffer), consuming it concurrently with a later writer is outside
// this package's guarantees. Backends in this module return owned values.
//
// Basic usage
//
//	be := memory.New[string, []byte]()
//	c := cache.New(cache.Options[string, []byte]{Backend: be})
//
//	c.Put("a", []byte("1"))
//	v, err := c.Get("a")
//
// Compute-on-miss under a stampede
//
//	v, err := c.GetOrCompute("report", func() ([]byte, error) {
//	    return buildExpensiveReport() // runs once, even with N concurrent callers
//	})
//
// Exporting metrics (example Prometheus adapter)
//
//	m := prom.New(nil, "syncache", "demo", nil) // implements Metrics
//	c := cache.New(cache.Options[string, []byte]{
//	    Backend: be,
//	    Metrics: m,
//	})
//
// Errors
//
// Get returns backend.ErrNotFound for absent keys. Backends with key-format
// constraints (backend.KeyValidator) fail with backend.ErrInvalidKey before
// any slot is claimed. Every other error is the backend's own, passed
// through untouched.
package cache
