package distance

import "math"

// SquaredL2 calculates the squared Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
//
// The accumulation order is fixed (index order) so that every caller observes
// bit-identical results for the same inputs.
func SquaredL2(a, b []float64) float64 {
	b = b[:len(a)]
	var d2 float64
	for i, av := range a {
		diff := av - b[i]
		d2 += diff * diff
	}
	return d2
}

// L2 calculates the Euclidean distance between two vectors.
func L2(a, b []float64) float64 {
	return math.Sqrt(SquaredL2(a, b))
}
