package cache

// Op identifies a coordinator operation in metrics signals.
type Op int

const (
	OpGet Op = iota
	OpPut
	OpRemove
	OpGetOrCompute
)

// String returns a stable label value for the operation.
func (op Op) String() string {
	switch op {
	case OpGet:
		return "get"
	case OpPut:
		return "put"
	case OpRemove:
		return "remove"
	case OpGetOrCompute:
		return "get_or_compute"
	default:
		return "unknown"
	}
}

// Metrics exposes coordination-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit is recorded when GetOrCompute finds the value already cached.
	Hit()
	// Miss is recorded when GetOrCompute has to invoke compute.
	Miss()
	// Wait is recorded when an operation parks behind a conflicting
	// same-key operation before its backend call.
	Wait(op Op)
	// Inflight reports the current number of reader and writer slots held
	// across all keys. Called after every acquire and retire.
	Inflight(readers, writers int64)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                {}
func (NoopMetrics) Miss()               {}
func (NoopMetrics) Wait(Op)             {}
func (NoopMetrics) Inflight(_, _ int64) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
