package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/syncache/backend/memory"
)

// benchmarkMix exercises a read/write mix against a warm coordinator.
// It uses parallel workers (RunParallel spawns GOMAXPROCS goroutines).
// String keys include strconv/concat costs and often allocate, which is fine
// for an end-to-end benchmark.
func benchmarkMix(b *testing.B, readsPct, shards int) {
	c := New(Options[string, string]{
		Backend: memory.New[string, string](),
		Shards:  shards,
	})

	// Preload a hot keyspace to get a realistic hit-rate.
	for i := 0; i < 1<<16; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Put(k, "v")
	}

	// Report per-op allocations for a rough idea where costs go.
	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, "v")
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B)         { benchmarkMix(b, 90, 1) }
func BenchmarkCache_50r50w(b *testing.B)         { benchmarkMix(b, 50, 1) }
func BenchmarkCache_90r10w_Sharded(b *testing.B) { benchmarkMix(b, 90, 64) }
func BenchmarkCache_50r50w_Sharded(b *testing.B) { benchmarkMix(b, 50, 64) }

// BenchmarkCache_GetOrCompute_Hit measures the steady-state cost of
// GetOrCompute once the value is cached (writer slot + one backend probe).
func BenchmarkCache_GetOrCompute_Hit(b *testing.B) {
	c := New(Options[int, int]{Backend: memory.New[int, int]()})
	c.Put(1, 1)

	loader := func() (int, error) { return 1, nil }

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.GetOrCompute(1, loader)
		}
	})
}
