package driver

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/fastkmeans"
	"github.com/hupe1980/fastkmeans/blobstore"
	"github.com/hupe1980/fastkmeans/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, names ...string) *blobstore.MemoryStore {
	t.Helper()
	rng := testutil.NewRNG(5)
	ds, err := fastkmeans.NewDatasetFromRows(rng.ClusteredRows(200, 3, 6, 0.3))
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	for _, name := range names {
		require.NoError(t, fastkmeans.SaveDataset(context.Background(), store, name, ds))
	}
	return store
}

func TestRunScript(t *testing.T) {
	store := newStore(t, "blobs.txt.gz")
	s := New(Config{Source: store})

	script := `
# every variant from one kmeans++ start
data blobs.txt.gz
seed 7
init 6 kmeansplusplus
threads 2
naive
compare
sort
heap
annulus
hamerly
hamerlyneighbors
elkan
elkanneighbors
drake 3
adaptive
`
	require.NoError(t, s.RunScript(context.Background(), strings.NewReader(script)))

	results := s.Results()
	require.Len(t, results, 11)
	assert.Empty(t, s.Mismatches())
	for _, r := range results {
		assert.Equal(t, "blobs.txt.gz", r.Dataset)
		assert.Equal(t, 6, r.K)
		assert.Equal(t, "kpp", r.Init)
		assert.EqualValues(t, 7, r.Seed)
		assert.Equal(t, 2, r.Threads)
		assert.True(t, r.Converged)
		assert.Equal(t, results[0].Iterations, r.Iterations)
	}
	assert.Equal(t, "naive", results[0].Algorithm)
	assert.LessOrEqual(t, results[5].DistanceEvaluations, results[0].DistanceEvaluations)
}

func TestRunScriptContinuesAfterErrors(t *testing.T) {
	store := newStore(t, "blobs.txt")
	s := New(Config{Source: store})

	script := `
naive
bogus
data missing.txt
data blobs.txt
init 4 random
drake 9
hamerly
`
	err := s.RunScript(context.Background(), strings.NewReader(script))
	require.Error(t, err)
	assert.ErrorIs(t, err, fastkmeans.ErrInconsistentState)
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Contains(t, err.Error(), "line 3")

	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "hamerly", results[0].Algorithm)
	assert.Equal(t, "random", results[0].Init)
}

func TestQuitStopsScript(t *testing.T) {
	store := newStore(t, "blobs.txt")
	s := New(Config{Source: store})

	script := "data blobs.txt\ninit 3 kpp\nnaive\nexit\nhamerly\n"
	require.NoError(t, s.RunScript(context.Background(), strings.NewReader(script)))
	assert.Len(t, s.Results(), 1)
}

func TestRepeatsAndIterationCap(t *testing.T) {
	store := newStore(t, "blobs.txt")
	s := New(Config{Source: store})
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "data", "blobs.txt"))
	require.NoError(t, s.Exec(ctx, "init", "6", "random"))
	require.NoError(t, s.Exec(ctx, "repeats", "3"))
	require.NoError(t, s.Exec(ctx, "maxiterations", "1"))
	require.NoError(t, s.Exec(ctx, "elkan"))

	results := s.Results()
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Repeat)
		assert.Equal(t, 1, r.Iterations)
	}

	require.NoError(t, s.Exec(ctx, "maxiterations", "-1"))
	require.NoError(t, s.Exec(ctx, "repeats", "1"))
	require.NoError(t, s.Exec(ctx, "naive"))
	assert.True(t, s.Results()[3].Converged)

	assert.ErrorIs(t, s.Exec(ctx, "maxiterations", "0"), fastkmeans.ErrInvalidArgument)
	assert.ErrorIs(t, s.Exec(ctx, "repeats", "0"), fastkmeans.ErrInvalidArgument)
	assert.ErrorIs(t, s.Exec(ctx, "threads", "x"), fastkmeans.ErrInvalidArgument)
	assert.ErrorIs(t, s.Exec(ctx, "init", "6", "bogus"), fastkmeans.ErrInvalidArgument)
	assert.ErrorIs(t, s.Exec(ctx, "naive", "extra"), fastkmeans.ErrInvalidArgument)
}

func TestCenterInvalidatesInit(t *testing.T) {
	store := newStore(t, "blobs.txt")
	s := New(Config{Source: store})
	ctx := context.Background()

	assert.ErrorIs(t, s.Exec(ctx, "center"), fastkmeans.ErrInconsistentState)
	require.NoError(t, s.Exec(ctx, "data", "blobs.txt"))
	require.NoError(t, s.Exec(ctx, "init", "3", "kpp"))
	require.NoError(t, s.Exec(ctx, "center"))
	assert.ErrorIs(t, s.Exec(ctx, "naive"), fastkmeans.ErrInconsistentState)

	require.NoError(t, s.Exec(ctx, "init", "3", "kpp"))
	require.NoError(t, s.Exec(ctx, "naive"))
	assert.Equal(t, "blobs.txt+center", s.Results()[0].Dataset)
}

func TestDump(t *testing.T) {
	store := newStore(t, "blobs.txt")
	var out bytes.Buffer
	s := New(Config{Source: store, Out: &out})
	ctx := context.Background()

	assert.ErrorIs(t, s.Exec(ctx, "dump_centers"), fastkmeans.ErrInconsistentState)

	require.NoError(t, s.Exec(ctx, "data", "blobs.txt"))
	require.NoError(t, s.Exec(ctx, "init", "2", "kpp"))
	require.NoError(t, s.Exec(ctx, "hamerly"))

	require.NoError(t, s.Exec(ctx, "dump_assignment"))
	labels := strings.Fields(out.String())
	assert.Len(t, labels, 200)
	for _, l := range labels {
		assert.Contains(t, []string{"0", "1"}, l)
	}

	out.Reset()
	require.NoError(t, s.Exec(ctx, "dump_centers"))
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestPlan(t *testing.T) {
	store := newStore(t, "a.txt.zst", "b.txt.lz4")
	s := New(Config{Source: store})

	plan, err := LoadPlan(strings.NewReader(`
threads: 2
max_iterations: -1
repeats: 2
runs:
  - dataset: a.txt.zst
    k: [2, 4]
    seeds: [1, 2]
    algorithms: [naive, "drake 1"]
  - dataset: b.txt.lz4
    center: true
    k: [3]
    init: random
    algorithms: [sort, heap, adaptive]
`))
	require.NoError(t, err)
	require.NoError(t, s.RunPlan(context.Background(), plan))

	results := s.Results()
	require.Len(t, results, 2*2*2*2+1*1*3*2)
	assert.Empty(t, s.Mismatches())
	assert.Equal(t, "b.txt.lz4+center", results[len(results)-1].Dataset)
	assert.Equal(t, "random", results[len(results)-1].Init)
}

func TestLoadPlanErrors(t *testing.T) {
	_, err := LoadPlan(strings.NewReader("runs:\n  - dataset: a\n    k: [2]\n    algos: [naive]\n"))
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)

	_, err = LoadPlan(strings.NewReader("runs:\n  - k: [2]\n    algorithms: [naive]\n"))
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)

	_, err = LoadPlan(strings.NewReader("threads: 1\n"))
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)
}

func TestRunPlanStopsAtFirstError(t *testing.T) {
	store := newStore(t, "a.txt")
	s := New(Config{Source: store})

	plan := &Plan{Runs: []PlanRun{{Dataset: "a.txt", K: []int{2}, Algorithms: []string{"bogus", "naive"}}}}
	err := s.RunPlan(context.Background(), plan)
	assert.ErrorIs(t, err, fastkmeans.ErrInvalidArgument)
	assert.Empty(t, s.Results())
}
