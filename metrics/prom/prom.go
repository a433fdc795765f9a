package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/syncache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	waits    *prometheus.CounterVec
	inflight *prometheus.GaugeVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "GetOrCompute calls served from the backend",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "GetOrCompute calls that invoked compute",
			ConstLabels: constLabels,
		}),
		waits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "waits_total",
				Help:        "Operations that parked behind a conflicting same-key operation",
				ConstLabels: constLabels,
			},
			[]string{"op"},
		),
		inflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "inflight_slots",
				Help:        "Currently held per-key slots by kind",
				ConstLabels: constLabels,
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(a.hits, a.misses, a.waits, a.inflight)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Wait increments the wait counter with an operation label.
func (a *Adapter) Wait(op cache.Op) {
	a.waits.WithLabelValues(op.String()).Inc()
}

// Inflight updates the reader/writer slot gauges.
func (a *Adapter) Inflight(readers, writers int64) {
	a.inflight.WithLabelValues("reader").Set(float64(readers))
	a.inflight.WithLabelValues("writer").Set(float64(writers))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
