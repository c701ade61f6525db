package snapshotpool

// DefaultCapacity is the number of snapshots a pool is sized for up front.
const DefaultCapacity = 1024

type options struct {
	capacity         int
	name             string
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures pool construction.
type Option func(*options)

// WithCapacity sizes the storage and interner for capacity snapshots.
// Pools grow past it on demand. Values <= 0 select DefaultCapacity.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithName sets the pool name used in log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger configures structured logging for pool lifecycle events.
// Pass nil to disable logging.
//
// Example:
//
//	logger := snapshotpool.NewTextLogger(slog.LevelDebug)
//	pool, _ := snapshotpool.New(40, snapshotpool.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for interning and growth.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &snapshotpool.BasicMetricsCollector{}
//	pool, _ := snapshotpool.New(40, snapshotpool.WithMetricsCollector(metrics))
//	// ... use pool ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

func applyOptions(opts []Option) options {
	o := options{
		capacity: DefaultCapacity,
		name:     "snapshotpool",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity <= 0 {
		o.capacity = DefaultCapacity
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
