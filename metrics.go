package snapshotpool

import "sync/atomic"

// MetricsCollector defines an interface for collecting interning metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Pools call it synchronously on their hot path, so implementations must be cheap.
type MetricsCollector interface {
	// RecordIntern is called after every interning lookup that was not
	// short-circuited. hit is true when an existing snapshot was returned.
	RecordIntern(hit bool)

	// RecordGrowth is called after the backing storage has grown.
	RecordGrowth(oldBytes, newBytes uint64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIntern(bool)            {}
func (NoopMetricsCollector) RecordGrowth(uint64, uint64) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe to share between pools running on different goroutines.
type BasicMetricsCollector struct {
	InternHits   atomic.Int64
	InternMisses atomic.Int64
	Growths      atomic.Int64
	StorageBytes atomic.Uint64
}

// RecordIntern implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIntern(hit bool) {
	if hit {
		b.InternHits.Add(1)
	} else {
		b.InternMisses.Add(1)
	}
}

// RecordGrowth implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrowth(oldBytes, newBytes uint64) {
	b.Growths.Add(1)
	b.StorageBytes.Add(newBytes - oldBytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	hits := b.InternHits.Load()
	misses := b.InternMisses.Load()
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return BasicMetricsStats{
		InternHits:   hits,
		InternMisses: misses,
		HitRatio:     ratio,
		Growths:      b.Growths.Load(),
		GrownBytes:   b.StorageBytes.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InternHits   int64
	InternMisses int64
	HitRatio     float64
	Growths      int64
	GrownBytes   uint64
}
