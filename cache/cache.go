package cache

import (
	"github.com/IvanBrykalov/syncache/backend"
	"github.com/IvanBrykalov/syncache/internal/util"
)

// coordinator implements Cache by layering a per-key read/write protocol
// over a sequential backend. Backend calls always run with no lock held:
// slow backend I/O never blocks unrelated keys, nor other readers of the
// same key from registering their intent.
type coordinator[K comparable, V any] struct {
	be backend.Backend[K, V]

	// Optional backend capabilities, resolved once at construction.
	computer  backend.Computer[K, V]
	validator backend.KeyValidator[K]

	keys    *keyTable[K]
	metrics Metrics

	// In-flight gauges (separate cache lines to avoid false sharing).
	_       util.CacheLinePad
	readers util.PaddedAtomicInt64
	writers util.PaddedAtomicInt64
}

// New constructs a coordinator over opt.Backend.
// Panics if Backend is nil: there is no meaningful zero-value backend and a
// nil here is always a wiring bug.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Backend == nil {
		panic("cache: Backend must not be nil")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	sh := opt.Shards
	if sh <= 1 {
		sh = 1
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}

	c := &coordinator[K, V]{
		be:      opt.Backend,
		keys:    newKeyTable[K](sh),
		metrics: opt.Metrics,
	}
	c.computer, _ = opt.Backend.(backend.Computer[K, V])
	c.validator, _ = opt.Backend.(backend.KeyValidator[K])
	return c
}

// ---- Cache[K,V] implementation ----

// Contains forwards to the backend directly. Membership checks do not
// conflict with in-flight operations, so there is nothing to coordinate.
func (c *coordinator[K, V]) Contains(k K) (bool, error) {
	if err := c.checkKey(k); err != nil {
		return false, err
	}
	return c.be.Contains(k)
}

// Get registers a reader slot for k, calls the backend with no lock held,
// and retires the slot unconditionally — a backend failure must never leave
// a stuck reader count behind.
func (c *coordinator[K, V]) Get(k K) (V, error) {
	if err := c.checkKey(k); err != nil {
		var zero V
		return zero, err
	}

	if c.keys.acquireRead(k) {
		c.metrics.Wait(OpGet)
	}
	c.gauge(c.readers.Add(1), c.writers.Load())
	defer func() {
		c.keys.releaseRead(k)
		c.gauge(c.readers.Add(-1), c.writers.Load())
	}()

	return c.be.Get(k)
}

// Put claims the exclusive writer slot for k, calls the backend with no lock
// held, and retires the slot unconditionally before any error propagates.
func (c *coordinator[K, V]) Put(k K, v V) (V, error) {
	if err := c.checkKey(k); err != nil {
		var zero V
		return zero, err
	}

	if c.keys.acquireWrite(k) {
		c.metrics.Wait(OpPut)
	}
	c.gauge(c.readers.Load(), c.writers.Add(1))
	defer c.retireWrite(k)

	return c.be.Put(k, v)
}

// Remove follows the same writer protocol as Put. The backend treats absent
// keys as a no-op, and so does Remove.
func (c *coordinator[K, V]) Remove(k K) error {
	if err := c.checkKey(k); err != nil {
		return err
	}

	if c.keys.acquireWrite(k) {
		c.metrics.Wait(OpRemove)
	}
	c.gauge(c.readers.Load(), c.writers.Add(1))
	defer c.retireWrite(k)

	return c.be.Remove(k)
}

// GetOrCompute claims the writer slot for k even though it may end up only
// reading: a concurrent caller racing on the same absent key must park until
// the first one has either observed or stored the value. The caller that
// finds k idle and absent runs compute exactly once; parked callers re-enter
// after the retire broadcast and observe the now-cached value.
func (c *coordinator[K, V]) GetOrCompute(k K, compute func() (V, error)) (V, error) {
	if err := c.checkKey(k); err != nil {
		var zero V
		return zero, err
	}

	if c.keys.acquireWrite(k) {
		c.metrics.Wait(OpGetOrCompute)
	}
	c.gauge(c.readers.Load(), c.writers.Add(1))
	defer c.retireWrite(k)

	// Track whether compute actually ran so hit/miss is correct on the
	// native backend path too.
	computed := false
	counted := func() (V, error) {
		computed = true
		return compute()
	}

	var v V
	var err error
	if c.computer != nil {
		v, err = c.computer.GetOrCompute(k, counted)
	} else {
		v, err = c.computeFallback(k, counted)
	}
	if err == nil {
		if computed {
			c.metrics.Miss()
		} else {
			c.metrics.Hit()
		}
	}
	return v, err
}

// computeFallback synthesizes GetOrCompute from the base contract. The
// check-then-act sequence is only sound because the caller holds the
// exclusive writer slot for k; no second caller can run it concurrently.
func (c *coordinator[K, V]) computeFallback(k K, compute func() (V, error)) (V, error) {
	var zero V

	ok, err := c.be.Contains(k)
	if err != nil {
		return zero, err
	}
	if ok {
		return c.be.Get(k)
	}

	v, err := compute()
	if err != nil {
		return zero, err
	}
	return c.be.Put(k, v)
}

// ---- helpers ----

func (c *coordinator[K, V]) checkKey(k K) error {
	if c.validator == nil {
		return nil
	}
	return c.validator.ValidateKey(k)
}

func (c *coordinator[K, V]) retireWrite(k K) {
	c.keys.releaseWrite(k)
	c.gauge(c.readers.Load(), c.writers.Add(-1))
}

func (c *coordinator[K, V]) gauge(readers, writers int64) {
	c.metrics.Inflight(readers, writers)
}
