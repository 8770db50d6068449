// Package metrics defines the operational metrics hooks of bucketvec.
//
// Containers report segment allocations; the snapshot package reports encode
// and decode runs. Implement Collector to integrate with a monitoring system,
// or use the Prometheus implementation in metrics/prometheus.
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector receives operational metrics.
// Implementations used with snapshot must be safe for concurrent use.
type Collector interface {
	// RecordSegmentAlloc is called after a container allocated a segment.
	RecordSegmentAlloc(ordinal, capacity int)

	// RecordSnapshotSave is called after a snapshot was encoded.
	// elements and bytes are what was written before any error.
	RecordSnapshotSave(elements int, bytes int64, duration time.Duration, err error)

	// RecordSnapshotLoad is called after a snapshot was decoded.
	RecordSnapshotLoad(elements int, bytes int64, duration time.Duration, err error)
}

// Noop discards all metrics.
type Noop struct{}

func (Noop) RecordSegmentAlloc(int, int)                         {}
func (Noop) RecordSnapshotSave(int, int64, time.Duration, error) {}
func (Noop) RecordSnapshotLoad(int, int64, time.Duration, error) {}

// Basic keeps simple in-memory counters.
// Useful for debugging and tests without external dependencies.
type Basic struct {
	SegmentAllocs   atomic.Int64
	SegmentCapacity atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	SaveElements    atomic.Int64
	SaveBytes       atomic.Int64
	SaveTotalNanos  atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadElements    atomic.Int64
	LoadBytes       atomic.Int64
	LoadTotalNanos  atomic.Int64
}

// RecordSegmentAlloc implements Collector.
func (b *Basic) RecordSegmentAlloc(_, capacity int) {
	b.SegmentAllocs.Add(1)
	b.SegmentCapacity.Add(int64(capacity))
}

// RecordSnapshotSave implements Collector.
func (b *Basic) RecordSnapshotSave(elements int, bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveElements.Add(int64(elements))
	b.SaveBytes.Add(bytes)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordSnapshotLoad implements Collector.
func (b *Basic) RecordSnapshotLoad(elements int, bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadElements.Add(int64(elements))
	b.LoadBytes.Add(bytes)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (b *Basic) Stats() BasicStats {
	return BasicStats{
		SegmentAllocs:   b.SegmentAllocs.Load(),
		SegmentCapacity: b.SegmentCapacity.Load(),
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		SaveElements:    b.SaveElements.Load(),
		SaveBytes:       b.SaveBytes.Load(),
		SaveAvgNanos:    avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadElements:    b.LoadElements.Load(),
		LoadBytes:       b.LoadBytes.Load(),
		LoadAvgNanos:    avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicStats is a snapshot of Basic state.
type BasicStats struct {
	SegmentAllocs   int64
	SegmentCapacity int64
	SaveCount       int64
	SaveErrors      int64
	SaveElements    int64
	SaveBytes       int64
	SaveAvgNanos    int64
	LoadCount       int64
	LoadErrors      int64
	LoadElements    int64
	LoadBytes       int64
	LoadAvgNanos    int64
}
