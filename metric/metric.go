// Package metric exports clustering metrics to Prometheus.
package metric

import (
	"time"

	"github.com/hupe1980/fastkmeans"
	"github.com/prometheus/client_golang/prometheus"
)

var _ fastkmeans.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements fastkmeans.MetricsCollector.
// All series are labeled by algorithm name.
type PrometheusCollector struct {
	iterations *prometheus.CounterVec
	changed    *prometheus.CounterVec
	distances  *prometheus.CounterVec
	runs       *prometheus.CounterVec
	runLatency *prometheus.HistogramVec
	runIters   *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collector and registers it with reg.
// A nil reg registers with the default registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastkmeans_iterations_total",
			Help: "Lloyd iterations executed",
		}, []string{"algorithm"}),
		changed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastkmeans_assignment_changes_total",
			Help: "Points that switched centers",
		}, []string{"algorithm"}),
		distances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastkmeans_distance_evaluations_total",
			Help: "Point-center distance evaluations",
		}, []string{"algorithm"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastkmeans_runs_total",
			Help: "Completed runs by status",
		}, []string{"algorithm", "status"}),
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fastkmeans_run_duration_seconds",
			Help:    "Wall time of a run",
			Buckets: prometheus.DefBuckets,
		}, []string{"algorithm"}),
		runIters: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fastkmeans_run_iterations",
			Help:    "Iterations executed per run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"algorithm"}),
	}
	reg.MustRegister(c.iterations, c.changed, c.distances, c.runs, c.runLatency, c.runIters)
	return c
}

// RecordIteration implements fastkmeans.MetricsCollector.
func (c *PrometheusCollector) RecordIteration(algorithm string, _ int, changed int, distances int64) {
	c.iterations.WithLabelValues(algorithm).Inc()
	c.changed.WithLabelValues(algorithm).Add(float64(changed))
	c.distances.WithLabelValues(algorithm).Add(float64(distances))
}

// RecordRun implements fastkmeans.MetricsCollector.
func (c *PrometheusCollector) RecordRun(algorithm string, iterations int, _ int64, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.runs.WithLabelValues(algorithm, status).Inc()
	c.runLatency.WithLabelValues(algorithm).Observe(d.Seconds())
	c.runIters.WithLabelValues(algorithm).Observe(float64(iterations))
}
