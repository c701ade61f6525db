package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/snapshotpool"
)

// prometheusCollector exports pool metrics.
type prometheusCollector struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	growths      prometheus.Counter
	storageBytes prometheus.Counter
}

var _ snapshotpool.MetricsCollector = (*prometheusCollector)(nil)

func newPrometheusCollector(reg prometheus.Registerer) *prometheusCollector {
	interns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshotpool_interns_total",
		Help: "Interning lookups by outcome",
	}, []string{"result"})
	c := &prometheusCollector{
		hits:   interns.WithLabelValues("hit"),
		misses: interns.WithLabelValues("miss"),
		growths: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapshotpool_storage_growths_total",
			Help: "Number of storage growths",
		}),
		storageBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapshotpool_storage_grown_bytes_total",
			Help: "Bytes added to pool storage by growth",
		}),
	}
	reg.MustRegister(interns, c.growths, c.storageBytes)
	return c
}

func (c *prometheusCollector) RecordIntern(hit bool) {
	if hit {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
}

func (c *prometheusCollector) RecordGrowth(oldBytes, newBytes uint64) {
	c.growths.Inc()
	c.storageBytes.Add(float64(newBytes - oldBytes))
}
