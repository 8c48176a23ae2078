package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformRows(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformRows(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	for _, row := range v {
		for _, x := range row {
			assert.GreaterOrEqual(t, x, 0.0)
			assert.Less(t, x, 1.0)
		}
	}
}

func TestClusteredRows(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.ClusteredRows(100, 4, 5, 0.01)

	assert.Equal(t, 100, len(v))
	assert.Equal(t, 4, len(v[0]))
	// Points of the same cluster stay within a few spreads of each other.
	for j := range v[0] {
		assert.InDelta(t, v[0][j], v[5][j], 0.2)
	}
}

func TestSeparatedRows(t *testing.T) {
	rng := NewRNG(7)

	v := rng.SeparatedRows(30, 2, 3, 10)

	for i, row := range v {
		assert.InDelta(t, float64(i%3)*10, row[0], 0.05)
	}
}

func TestLabels(t *testing.T) {
	rng := NewRNG(1)

	labels := rng.Labels(50, 4)

	assert.Len(t, labels, 50)
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 4)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.GaussianRows(1, 10)

	rng.Reset()
	v2 := rng.GaussianRows(1, 10)

	assert.Equal(t, v1, v2)
}
