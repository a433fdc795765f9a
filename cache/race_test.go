package cache

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IvanBrykalov/syncache/backend/memory"
)

// A mixed workload of concurrent Get/Put/Remove/GetOrCompute on random keys.
// Should pass under `-race` without detector reports.
func TestRace_Basic(t *testing.T) {
	c := New(Options[string, []byte]{
		Backend: memory.New[string, []byte](),
		Shards:  32,
	})

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 10_000
	deadline := time.Now().Add(2 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Remove
					c.Remove(k)
				case 5, 6, 7, 8, 9: // ~5% — GetOrCompute
					c.GetOrCompute(k, func() ([]byte, error) {
						return []byte("x"), nil
					})
				case 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~10% — Put
					c.Put(k, []byte("x"))
				default: // ~80% — Get
					c.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()

	assertDrained(t, c)
}

// One hundred goroutines call GetOrCompute on the same key concurrently.
// The first to claim the writer slot computes; everyone else observes the
// stored value, so compute runs exactly once.
func TestRace_Stampede(t *testing.T) {
	var calls int64

	c := New(Options[string, string]{Backend: memory.New[string, string]()})

	const goroutines = 100
	key := "same-key"

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrCompute(key, func() (string, error) {
				atomic.AddInt64(&calls, 1)
				time.Sleep(2 * time.Millisecond) // simulate I/O
				return "v:" + key, nil
			})
			if err != nil {
				t.Errorf("GetOrCompute error: %v", err)
				return
			}
			if v != "v:"+key {
				t.Errorf("unexpected value: %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("compute should run exactly once, got %d", got)
	}

	// Subsequent call should be a pure cache hit.
	if v, err := c.GetOrCompute(key, func() (string, error) {
		t.Error("compute must not run for a cached key")
		return "", nil
	}); err != nil || v != "v:"+key {
		t.Fatalf("second GetOrCompute failed: v=%q err=%v", v, err)
	}
	assertDrained(t, c)
}
