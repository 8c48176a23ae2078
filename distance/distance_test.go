package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SquaredL2(tt.a, tt.b))
		})
	}
}

func TestL2(t *testing.T) {
	assert.Equal(t, 5.0, L2([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, math.Sqrt(2), L2([]float64{1, 0}, []float64{0, 1}))
}

func TestSquaredL2_Symmetric(t *testing.T) {
	a := []float64{0.25, -3.5, 7.125, 1e-3}
	b := []float64{-1.5, 2.75, 0.5, 9}
	assert.Equal(t, SquaredL2(a, b), SquaredL2(b, a))
}
