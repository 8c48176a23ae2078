package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// rows allocates num rows of dim values over a single backing array.
func rows(num, dim int) [][]float64 {
	data := make([]float64, num*dim)
	out := make([][]float64, num)
	for i := range num {
		out[i] = data[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return out
}

// UniformRows generates num points with coordinates in [0, 1).
func (r *RNG) UniformRows(num, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := rows(num, dim)
	for _, row := range out {
		for j := range row {
			row[j] = r.rand.Float64()
		}
	}
	return out
}

// GaussianRows generates num points from a standard normal distribution.
func (r *RNG) GaussianRows(num, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := rows(num, dim)
	for _, row := range out {
		for j := range row {
			row[j] = r.rand.NormFloat64()
		}
	}
	return out
}

// ClusteredRows generates num points around clusters standard-normal
// centroids with Gaussian noise of the given spread. Point i belongs to
// centroid i % clusters.
func (r *RNG) ClusteredRows(num, dim, clusters int, spread float64) [][]float64 {
	centroids := r.GaussianRows(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := rows(num, dim)
	for i, row := range out {
		centroid := centroids[i%clusters]
		for j := range row {
			row[j] = centroid[j] + r.rand.NormFloat64()*spread
		}
	}
	return out
}

// SeparatedRows generates clusters tight blobs whose centroids lie on a line
// sep apart, so the nearest centroid of every point is unambiguous.
func (r *RNG) SeparatedRows(num, dim, clusters int, sep float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := rows(num, dim)
	for i, row := range out {
		c := float64(i % clusters)
		for j := range row {
			row[j] = (r.rand.Float64() - 0.5) * 0.1
		}
		row[0] += c * sep
	}
	return out
}

// Labels returns n labels drawn uniformly from [0, k).
func (r *RNG) Labels(n, k int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(k)
	}
	return out
}
