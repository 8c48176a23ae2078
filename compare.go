package fastkmeans

import (
	"context"
	"math"
)

// Compare implements Phillips' compare-means. Each iteration it computes the
// squared inter-center distances divided by four; center j is skipped for a
// point whose best squared distance so far is below d²(best, j)/4, since by
// the triangle inequality j cannot be closer.
//
// Compare keeps no per-point state, which makes it the instrumented baseline
// the bound-based variants are benchmarked against.
type Compare struct {
	base

	// quarter[a*k+c] = d²(a, c) / 4; the diagonal is +Inf.
	quarter []float64
}

// NewCompare creates a compare-means variant.
func NewCompare(opts ...Option) *Compare {
	return &Compare{base: newBase("compare", opts)}
}

// Initialize implements Algorithm.
func (alg *Compare) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, func() {
		alg.quarter = make([]float64, k*k)
		for c := 0; c < k; c++ {
			alg.quarter[c*k+c] = math.Inf(1)
		}
	})
}

// Run implements Algorithm.
func (alg *Compare) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Compare) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Compare) prepare() {
	k := alg.k
	alg.refreshCenterDist2(func(a, c int) {
		q := alg.cc2[a*k+c] / 4
		alg.quarter[a*k+c] = q
		alg.quarter[c*k+a] = q
	})
}

func (alg *Compare) assignRange(w int, r pointRange) {
	k := alg.k
	for i := r.lo; i < r.hi; i++ {
		closest := alg.labels[i]
		best := alg.dist2(w, i, closest)

		for j := 0; j < k; j++ {
			if j == closest || alg.quarter[j*k+closest] > best {
				continue
			}
			d2 := alg.dist2(w, i, j)
			if d2 < best || (d2 == best && j < closest) {
				best = d2
				closest = j
			}
		}

		if alg.labels[i] != closest {
			alg.reassign(w, i, closest)
		}
	}
}

func (alg *Compare) updateBounds() {}
