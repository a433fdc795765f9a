package cache

import (
	"sync"

	"github.com/IvanBrykalov/syncache/internal/util"
)

// writing marks a key with exactly one exclusive writer in flight.
// Positive values count concurrent readers; absence means idle.
const writing = -1

// keyTable tracks the in-flight state of every key. It is the only shared
// mutable state in the coordinator: one mutex plus one condition variable
// per shard, not per key, so memory stays bounded by the number of keys
// actually in flight.
//
// Transitions per key: idle → reading(n) via acquireRead (n readers),
// idle → writing via acquireWrite, back to idle when the last holder
// releases. Conflicting acquirers park on the shard's condition variable
// and re-check their predicate on every wake, which makes them safe against
// both lost and spurious wakeups.
type keyTable[K comparable] struct {
	shards []*tableShard[K]
	hash   func(K) uint64
}

type tableShard[K comparable] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state map[K]int

	// waits counts parked acquirers; updated under mu.
	waits util.PaddedUint64
}

func newKeyTable[K comparable](shards int) *keyTable[K] {
	t := &keyTable[K]{
		shards: make([]*tableShard[K], shards),
		hash:   util.Fnv64a[K],
	}
	for i := range t.shards {
		s := &tableShard[K]{state: make(map[K]int)}
		s.cond = sync.NewCond(&s.mu)
		t.shards[i] = s
	}
	return t
}

func (t *keyTable[K]) shard(k K) *tableShard[K] {
	if len(t.shards) == 1 {
		return t.shards[0]
	}
	return t.shards[util.ShardIndex(t.hash(k), len(t.shards))]
}

// acquireRead blocks until no writer is active for k, then registers one
// more reader. Reports whether the caller had to wait.
func (t *keyTable[K]) acquireRead(k K) bool {
	s := t.shard(k)
	s.mu.Lock()
	waited := false
	for s.state[k] == writing {
		if !waited {
			waited = true
			s.waits.V++
		}
		s.cond.Wait()
	}
	s.state[k]++
	s.mu.Unlock()
	return waited
}

// releaseRead retires one reader of k and wakes every parked acquirer.
// The entry is deleted when the last reader leaves, so the table never
// accumulates idle keys.
func (t *keyTable[K]) releaseRead(k K) {
	s := t.shard(k)
	s.mu.Lock()
	if n := s.state[k] - 1; n > 0 {
		s.state[k] = n
	} else {
		delete(s.state, k)
	}
	s.cond.Broadcast()
	s.mu.Unlock()
}

// acquireWrite blocks until k is fully idle (no readers, no writer), then
// claims the exclusive writer slot. Reports whether the caller had to wait.
func (t *keyTable[K]) acquireWrite(k K) bool {
	s := t.shard(k)
	s.mu.Lock()
	waited := false
	for s.state[k] != 0 {
		if !waited {
			waited = true
			s.waits.V++
		}
		s.cond.Wait()
	}
	s.state[k] = writing
	s.mu.Unlock()
	return waited
}

// releaseWrite retires the writer slot for k and wakes every parked acquirer.
func (t *keyTable[K]) releaseWrite(k K) {
	s := t.shard(k)
	s.mu.Lock()
	delete(s.state, k)
	s.cond.Broadcast()
	s.mu.Unlock()
}

// pending returns the number of keys with any operation in flight.
func (t *keyTable[K]) pending() int {
	total := 0
	for _, s := range t.shards {
		s.mu.Lock()
		total += len(s.state)
		s.mu.Unlock()
	}
	return total
}

// waitCount returns the total number of times an acquirer had to park.
func (t *keyTable[K]) waitCount() uint64 {
	var total uint64
	for _, s := range t.shards {
		s.mu.Lock()
		total += s.waits.V
		s.mu.Unlock()
	}
	return total
}
