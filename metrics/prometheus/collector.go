// Package prometheus exports bucketvec metrics to Prometheus.
package prometheus

import (
	"time"

	"github.com/hupe1980/bucketvec/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var _ metrics.Collector = (*Collector)(nil)

// Collector implements metrics.Collector with Prometheus counters and histograms.
type Collector struct {
	segmentAllocs   prometheus.Counter
	segmentCapacity prometheus.Counter
	snapshotOps     *prometheus.CounterVec
	snapshotErrors  *prometheus.CounterVec
	snapshotElems   *prometheus.CounterVec
	snapshotBytes   *prometheus.CounterVec
	snapshotLatency *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		segmentAllocs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_allocated_total",
			Help:      "Total number of segments allocated by bucket vectors",
		}),
		segmentCapacity: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_capacity_total",
			Help:      "Total element capacity of all allocated segments",
		}),
		snapshotOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_operations_total",
			Help:      "Number of snapshot encode/decode runs",
		}, []string{"op"}),
		snapshotErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_errors_total",
			Help:      "Number of failed snapshot encode/decode runs",
		}, []string{"op"}),
		snapshotElems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_elements_total",
			Help:      "Number of elements encoded or decoded",
		}, []string{"op"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_total",
			Help:      "Number of snapshot bytes written or read",
		}, []string{"op"}),
		snapshotLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_duration_seconds",
			Help:      "Histogram of snapshot encode/decode durations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	for _, col := range []prometheus.Collector{
		c.segmentAllocs, c.segmentCapacity, c.snapshotOps, c.snapshotErrors,
		c.snapshotElems, c.snapshotBytes, c.snapshotLatency,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordSegmentAlloc implements metrics.Collector.
func (c *Collector) RecordSegmentAlloc(_, capacity int) {
	c.segmentAllocs.Inc()
	c.segmentCapacity.Add(float64(capacity))
}

// RecordSnapshotSave implements metrics.Collector.
func (c *Collector) RecordSnapshotSave(elements int, bytes int64, duration time.Duration, err error) {
	c.record("save", elements, bytes, duration, err)
}

// RecordSnapshotLoad implements metrics.Collector.
func (c *Collector) RecordSnapshotLoad(elements int, bytes int64, duration time.Duration, err error) {
	c.record("load", elements, bytes, duration, err)
}

func (c *Collector) record(op string, elements int, bytes int64, duration time.Duration, err error) {
	c.snapshotOps.WithLabelValues(op).Inc()
	if err != nil {
		c.snapshotErrors.WithLabelValues(op).Inc()
	}
	c.snapshotElems.WithLabelValues(op).Add(float64(elements))
	c.snapshotBytes.WithLabelValues(op).Add(float64(bytes))
	c.snapshotLatency.WithLabelValues(op).Observe(duration.Seconds())
}
