package explore

import (
	"time"

	"github.com/hupe1980/snapshotpool"
	"github.com/hupe1980/snapshotpool/resource"
)

// StorageKind selects the storage realization of the pools an explorer creates.
type StorageKind string

const (
	// StorageManaged keeps states on the Go heap.
	StorageManaged StorageKind = "managed"
	// StorageUnmanaged keeps states in anonymous memory mappings.
	StorageUnmanaged StorageKind = "unmanaged"
)

// DefaultProgressInterval is the minimum time between progress log records.
const DefaultProgressInterval = time.Second

// Config holds explorer settings.
type Config struct {
	// MaxStates stops the search after that many distinct states. 0 means no limit.
	MaxStates int
	// Storage selects the storage realization. Defaults to StorageManaged.
	Storage StorageKind
	// Capacity is the initial pool capacity in states.
	Capacity int
	// ProgressInterval throttles progress logging.
	ProgressInterval time.Duration
	// Workers limits how many models RunAll explores at once. Defaults to 1.
	Workers int

	Logger     *snapshotpool.Logger
	Metrics    snapshotpool.MetricsCollector
	Controller *resource.Controller
}

// Option configures an exploration.
type Option func(*Config)

// WithMaxStates bounds the number of distinct states explored.
func WithMaxStates(n int) Option {
	return func(c *Config) {
		c.MaxStates = n
	}
}

// WithStorage selects the storage realization.
func WithStorage(kind StorageKind) Option {
	return func(c *Config) {
		c.Storage = kind
	}
}

// WithCapacity sets the initial pool capacity in states.
func WithCapacity(n int) Option {
	return func(c *Config) {
		c.Capacity = n
	}
}

// WithProgressInterval sets the minimum time between progress log records.
func WithProgressInterval(d time.Duration) Option {
	return func(c *Config) {
		c.ProgressInterval = d
	}
}

// WithWorkers limits the number of models RunAll explores concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithLogger sets the logger for progress and results.
func WithLogger(l *snapshotpool.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithMetricsCollector attaches a metrics collector to every pool.
func WithMetricsCollector(mc snapshotpool.MetricsCollector) Option {
	return func(c *Config) {
		c.Metrics = mc
	}
}

// WithController accounts pool memory and worker slots against c.
func WithController(ctl *resource.Controller) Option {
	return func(c *Config) {
		c.Controller = ctl
	}
}

func applyOptions(opts []Option) Config {
	c := Config{
		Storage:          StorageManaged,
		Capacity:         snapshotpool.DefaultCapacity,
		ProgressInterval: DefaultProgressInterval,
		Workers:          1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Logger == nil {
		c.Logger = snapshotpool.NoopLogger()
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}
