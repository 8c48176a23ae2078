package fastkmeans

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/hupe1980/fastkmeans/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRecordsRun(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rng := testutil.NewRNG(13)
	ds, err := NewDatasetFromRows(rng.ClusteredRows(60, 2, 3, 0.2))
	require.NoError(t, err)
	init := kppStart(t, ds, 3, 1)

	alg := NewHamerly(WithLogger(logger))
	runToConvergence(t, alg, ds, 3, init)

	out := buf.String()
	assert.Contains(t, out, "algorithm=hamerly")
	assert.Contains(t, out, "msg=initialized")
	assert.Contains(t, out, `msg="iteration completed"`)
	assert.Contains(t, out, `msg="run completed"`)
	assert.Contains(t, out, "converged=true")
}

func TestLoggerRecordsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	ds, err := NewDatasetFromRows([][]float64{{0}, {1}})
	require.NoError(t, err)
	init, err := NewAssignment(2)
	require.NoError(t, err)

	assert.Error(t, NewElkan(WithLogger(logger)).Initialize(ds, 5, init))
	assert.Contains(t, buf.String(), `msg="initialize failed"`)
	assert.Contains(t, buf.String(), "algorithm=elkan")
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil)).WithK(4).WithDimension(8)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"k":4`)
	assert.Contains(t, buf.String(), `"dimension":8`)

	assert.NotNil(t, NewLogger(nil))
	assert.NotNil(t, NewJSONLogger(slog.LevelWarn))
	assert.NotNil(t, NewTextLogger(slog.LevelWarn))
	assert.False(t, NoopLogger().Enabled(t.Context(), slog.LevelError))
}
