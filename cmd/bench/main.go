// Command bench runs a synthetic concurrent workload against the coordinator
// and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IvanBrykalov/syncache/backend"
	"github.com/IvanBrykalov/syncache/backend/disk"
	"github.com/IvanBrykalov/syncache/backend/memory"
	"github.com/IvanBrykalov/syncache/backend/null"
	"github.com/IvanBrykalov/syncache/backend/ttl"
	"github.com/IvanBrykalov/syncache/cache"
	"github.com/IvanBrykalov/syncache/internal/util"
	pmet "github.com/IvanBrykalov/syncache/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		backendName = flag.String("backend", "memory", "backend: memory | ttl | disk | null")
		diskDir     = flag.String("dir", "", "cache directory for the disk backend")
		entryTTL    = flag.Duration("ttl", time.Minute, "entry TTL for the ttl backend")
		shards      = flag.Int("shards", 1, "key-state shards (1 = single-lock design, 0 = auto)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 100_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = keys/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "syncache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Pick a backend ----
	var be backend.Backend[string, []byte]
	switch *backendName {
	case "memory":
		be = memory.New[string, []byte]()
	case "ttl":
		t := ttl.New[string, []byte](*entryTTL)
		defer t.Stop()
		be = t
	case "disk":
		if *diskDir == "" {
			log.Fatal("disk backend requires -dir")
		}
		be = disk.New(*diskDir)
	case "null":
		be = null.New[string, []byte]()
	default:
		log.Fatalf("unknown backend: %q (use memory, ttl, disk or null)", *backendName)
	}

	// ---- Build coordinator ----
	shardsN := *shards
	if shardsN <= 0 {
		shardsN = util.ReasonableShardCount()
	}
	c := cache.New(cache.Options[string, []byte]{
		Backend: be,
		Shards:  shardsN,
		Metrics: metrics,
	})

	// ---- Preload half the keyspace to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *keys / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		if _, err := c.Put(k, []byte("v"+strconv.Itoa(i))); err != nil {
			log.Fatalf("preload: %v", err)
		}
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, computes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				switch r := int(localR.Int31n(100)); {
				case r < readPctVal:
					atomic.AddUint64(&reads, 1)
					if _, err := c.Get(keyByZipf()); err == nil {
						atomic.AddUint64(&hits, 1)
					} else if errors.Is(err, backend.ErrNotFound) {
						atomic.AddUint64(&misses, 1)
					} else {
						log.Fatalf("get: %v", err)
					}
				case r < readPctVal+(100-readPctVal)/2:
					atomic.AddUint64(&writes, 1)
					k := keyByZipf()
					if _, err := c.Put(k, []byte("v"+strconv.Itoa(localR.Int()))); err != nil {
						log.Fatalf("put: %v", err)
					}
				default:
					atomic.AddUint64(&computes, 1)
					k := keyByZipf()
					if _, err := c.GetOrCompute(k, func() ([]byte, error) {
						return []byte("computed"), nil
					}); err != nil {
						log.Fatalf("getOrCompute: %v", err)
					}
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	computesN := atomic.LoadUint64(&computes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("backend=%s shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		*backendName, shardsN, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  computes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN, computesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
}
