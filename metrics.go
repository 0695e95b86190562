package seqdata

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting pipeline metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFilter is called once per Open with the scanned and admitted
	// example counts.
	RecordFilter(total, admitted int, duration time.Duration)

	// RecordBatch is called for every delivered batch. wait is the time the
	// consumer waited for it.
	RecordBatch(examples, maxLen int, wait time.Duration)

	// RecordEpoch is called when an epoch ends; err is nil if it completed.
	RecordEpoch(batches int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFilter(int, int, time.Duration)  {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)   {}
func (NoopMetricsCollector) RecordEpoch(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	FilterTotal     atomic.Int64
	FilterAdmitted  atomic.Int64
	BatchCount      atomic.Int64
	ExampleCount    atomic.Int64
	PaddedFrames    atomic.Int64
	BatchWaitNanos  atomic.Int64
	EpochCount      atomic.Int64
	EpochErrors     atomic.Int64
	EpochTotalNanos atomic.Int64
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(total, admitted int, _ time.Duration) {
	b.FilterTotal.Add(int64(total))
	b.FilterAdmitted.Add(int64(admitted))
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(examples, maxLen int, wait time.Duration) {
	b.BatchCount.Add(1)
	b.ExampleCount.Add(int64(examples))
	b.PaddedFrames.Add(int64(examples * maxLen))
	b.BatchWaitNanos.Add(wait.Nanoseconds())
}

// RecordEpoch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEpoch(_ int, duration time.Duration, err error) {
	b.EpochCount.Add(1)
	b.EpochTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EpochErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		FilterTotal:    b.FilterTotal.Load(),
		FilterAdmitted: b.FilterAdmitted.Load(),
		BatchCount:     b.BatchCount.Load(),
		ExampleCount:   b.ExampleCount.Load(),
		PaddedFrames:   b.PaddedFrames.Load(),
		EpochCount:     b.EpochCount.Load(),
		EpochErrors:    b.EpochErrors.Load(),
	}
	if s.BatchCount > 0 {
		s.BatchAvgWaitNanos = b.BatchWaitNanos.Load() / s.BatchCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FilterTotal       int64
	FilterAdmitted    int64
	BatchCount        int64
	ExampleCount      int64
	PaddedFrames      int64
	BatchAvgWaitNanos int64
	EpochCount        int64
	EpochErrors       int64
}
