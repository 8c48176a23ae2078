package metric

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/fastkmeans"
	"github.com/hupe1980/fastkmeans/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordIteration("elkan", 1, 10, 500)
	c.RecordIteration("elkan", 2, 0, 40)
	c.RecordRun("elkan", 2, 540, 20*time.Millisecond, nil)
	c.RecordRun("elkan", 0, 0, 0, errors.New("boom"))

	assert.Equal(t, 2.0, promtest.ToFloat64(c.iterations.WithLabelValues("elkan")))
	assert.Equal(t, 10.0, promtest.ToFloat64(c.changed.WithLabelValues("elkan")))
	assert.Equal(t, 540.0, promtest.ToFloat64(c.distances.WithLabelValues("elkan")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.runs.WithLabelValues("elkan", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.runs.WithLabelValues("elkan", "error")))
}

func TestPrometheusCollectorWithAlgorithm(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	rng := testutil.NewRNG(5)
	ds, err := fastkmeans.NewDatasetFromRows(rng.ClusteredRows(120, 2, 3, 0.1))
	require.NoError(t, err)
	init, err := fastkmeans.NewAssignment(ds.N())
	require.NoError(t, err)
	for i, l := range rng.Labels(ds.N(), 3) {
		require.NoError(t, init.Set(i, l))
	}

	alg := fastkmeans.NewHamerly(fastkmeans.WithMetricsCollector(c))
	require.NoError(t, alg.Initialize(ds, 3, init))
	iters, err := alg.Run(100)
	require.NoError(t, err)

	assert.Equal(t, float64(iters), promtest.ToFloat64(c.iterations.WithLabelValues("hamerly")))
	assert.Equal(t, float64(alg.Stats().DistanceEvaluations), promtest.ToFloat64(c.distances.WithLabelValues("hamerly")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.runs.WithLabelValues("hamerly", "success")))
}
