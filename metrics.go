package fastkmeans

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting clustering metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the metric package for a ready-made collector).
type MetricsCollector interface {
	// RecordIteration is called after every Lloyd iteration.
	// changed is the number of points that switched centers and distances the
	// number of point-center distance evaluations performed in the iteration.
	RecordIteration(algorithm string, iteration, changed int, distances int64)

	// RecordRun is called when Run returns.
	// err is nil if the run completed (converged or hit the iteration cap).
	RecordRun(algorithm string, iterations int, distances int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIteration(string, int, int, int64)            {}
func (NoopMetricsCollector) RecordRun(string, int, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	IterationCount     atomic.Int64
	ChangedPoints      atomic.Int64
	DistanceCount      atomic.Int64
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
	RunIterationsTotal atomic.Int64
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(_ string, _ int, changed int, distances int64) {
	b.IterationCount.Add(1)
	b.ChangedPoints.Add(int64(changed))
	b.DistanceCount.Add(distances)
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ string, iterations int, _ int64, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.RunIterationsTotal.Add(int64(iterations))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// AverageRunLatency returns the mean Run latency.
func (b *BasicMetricsCollector) AverageRunLatency() time.Duration {
	n := b.RunCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(b.RunTotalNanos.Load() / n)
}
