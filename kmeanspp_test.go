package fastkmeans

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/fastkmeans/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointIndex returns the index of the dataset point equal to row, or -1.
func pointIndex(t *testing.T, ds *Dataset, row []float64) int {
	t.Helper()
	for i := 0; i < ds.N(); i++ {
		p, err := ds.Point(i)
		require.NoError(t, err)
		if assert.ObjectsAreEqual(p, row) {
			return i
		}
	}
	return -1
}

func TestKMeansPlusPlus(t *testing.T) {
	rng := testutil.NewRNG(17)
	ds, err := NewDatasetFromRows(rng.UniformRows(100, 3))
	require.NoError(t, err)

	centers, err := KMeansPlusPlus(ds, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, centers.K())
	assert.Equal(t, 3, centers.D())

	seen := make(map[int]bool)
	for _, row := range centers.Rows() {
		i := pointIndex(t, ds, row)
		require.GreaterOrEqual(t, i, 0, "center is not a dataset point")
		assert.False(t, seen[i], "point %d chosen twice", i)
		seen[i] = true
	}

	again, err := KMeansPlusPlus(ds, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, centers.Rows(), again.Rows())

	other, err := KMeansPlusPlus(ds, 10, 6)
	require.NoError(t, err)
	assert.NotEqual(t, centers.Rows(), other.Rows())
}

func TestKMeansPlusPlusDuplicatePoints(t *testing.T) {
	ds, err := NewDatasetFromRows([][]float64{{1, 1}, {1, 1}, {1, 1}, {5, 5}})
	require.NoError(t, err)

	centers, err := KMeansPlusPlus(ds, 4, 3)
	require.NoError(t, err)

	rows := centers.Rows()
	assert.Contains(t, rows, []float64{5, 5})
	ones := 0
	for _, row := range rows {
		if row[0] == 1 {
			ones++
		}
	}
	assert.Equal(t, 3, ones)
}

func TestKMeansPlusPlusPrefersDistantPoints(t *testing.T) {
	// Two far-apart groups: the second center must come from the other group.
	var rows [][]float64
	for i := 0; i < 20; i++ {
		rows = append(rows, []float64{float64(i) * 1e-3, 0})
	}
	for i := 0; i < 20; i++ {
		rows = append(rows, []float64{1000 + float64(i)*1e-3, 0})
	}
	ds, err := NewDatasetFromRows(rows)
	require.NoError(t, err)

	for seed := int64(0); seed < 10; seed++ {
		centers, err := KMeansPlusPlus(ds, 2, seed)
		require.NoError(t, err)
		c := centers.Rows()
		assert.Greater(t, abs(c[0][0]-c[1][0]), 900.0, "seed %d", seed)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestKMeansPlusPlusErrors(t *testing.T) {
	ds, err := NewDatasetFromRows([][]float64{{0}, {1}})
	require.NoError(t, err)

	_, err = KMeansPlusPlus(ds, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = KMeansPlusPlus(ds, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = KMeansPlusPlus(nil, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = KMeansPlusPlusRand(ds, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	centers, err := KMeansPlusPlusRand(ds, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]float64{{0}, {1}}, centers.Rows())
}

func TestRandomCenters(t *testing.T) {
	rng := testutil.NewRNG(23)
	ds, err := NewDatasetFromRows(rng.UniformRows(50, 2))
	require.NoError(t, err)

	centers, err := RandomCenters(ds, 8, 2)
	require.NoError(t, err)
	seen := make(map[int]bool)
	for _, row := range centers.Rows() {
		i := pointIndex(t, ds, row)
		require.GreaterOrEqual(t, i, 0)
		assert.False(t, seen[i])
		seen[i] = true
	}

	again, err := RandomCenters(ds, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, centers.Rows(), again.Rows())

	_, err = RandomCenters(ds, 51, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRouletteSelect(t *testing.T) {
	cum := []float64{0, 1, 1, 3}
	assert.Equal(t, 1, rouletteSelect(cum, 0))
	assert.Equal(t, 1, rouletteSelect(cum, 0.99))
	assert.Equal(t, 3, rouletteSelect(cum, 1))
	assert.Equal(t, 3, rouletteSelect(cum, 3))
}
