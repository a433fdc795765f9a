package cache

import (
	"github.com/IvanBrykalov/syncache/backend"
)

// Options configures the coordinator. Zero values are safe except Backend,
// which is required; sane defaults are applied in New():
//   - nil Metrics  => NoopMetrics
//   - Shards <= 1  => one key-state table (the bounded-memory default)
type Options[K comparable, V any] struct {
	// Backend is the sequential store the coordinator wraps. Required.
	// The coordinator never constructs or tears it down; ownership stays
	// with the caller.
	Backend backend.Backend[K, V]

	// Shards splits the key-state table into independent mutex+cond
	// shards to reduce contention on state transitions. Values > 1 are
	// rounded up to the next power of two. The default of one shard keeps
	// the original single-lock design: simple, bounded memory, lock held
	// only for a few map operations per transition. This is a throughput
	// knob, not a correctness one: the per-key contract is identical at
	// any shard count. Sharding routes keys by an internal hash that
	// supports strings, []byte, integer kinds and fmt.Stringer; with one
	// shard any comparable key works.
	Shards int

	// Metrics receives coordination signals (hits/misses of GetOrCompute,
	// waits, in-flight gauges). Nil => NoopMetrics.
	Metrics Metrics
}
