package fastkmeans

import (
	"context"
	"math"
)

// Naive is Lloyd's algorithm without pruning: every iteration compares every
// point against every center. It is the reference the other variants must
// reproduce.
type Naive struct {
	base
}

// NewNaive creates the brute-force baseline.
func NewNaive(opts ...Option) *Naive {
	return &Naive{base: newBase("naive", opts)}
}

// Initialize implements Algorithm.
func (alg *Naive) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, nil)
}

// Run implements Algorithm.
func (alg *Naive) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Naive) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Naive) prepare() {}

func (alg *Naive) assignRange(w int, r pointRange) {
	for i := r.lo; i < r.hi; i++ {
		closest := 0
		best := math.MaxFloat64
		for j := 0; j < alg.k; j++ {
			if d2 := alg.dist2(w, i, j); d2 < best {
				best = d2
				closest = j
			}
		}
		alg.ws[w].fullScans++
		if alg.labels[i] != closest {
			alg.reassign(w, i, closest)
		}
	}
}

func (alg *Naive) updateBounds() {}
