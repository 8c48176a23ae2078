package fastkmeans

import (
	"context"
	"math"
)

// Elkan implements Elkan's algorithm: an upper bound on the distance to the
// assigned center and k lower bounds, one per center, for every point.
// Inter-center half distances prune individual centers in addition to the
// per-center lower bounds.
type Elkan struct {
	base

	upper []float64
	// lower[i*k+j] bounds the distance from point i to center j from below.
	lower []float64
	half  []float64
	s     []float64

	// all lists every center; nb replaces it with neighbor lists when non-nil.
	all       []int
	nb        *neighborSets
	neighbors bool
}

// NewElkan creates an Elkan variant.
func NewElkan(opts ...Option) *Elkan {
	return &Elkan{base: newBase("elkan", opts)}
}

// NewElkanNeighbors creates an Elkan variant that only visits the centers
// near enough to a point's assigned center to be nearest.
func NewElkanNeighbors(opts ...Option) *Elkan {
	return &Elkan{base: newBase("elkanneighbors", opts), neighbors: true}
}

// Initialize implements Algorithm.
func (alg *Elkan) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, func() {
		alg.upper = make([]float64, alg.n)
		for i := range alg.upper {
			alg.upper[i] = math.Inf(1)
		}
		alg.lower = make([]float64, alg.n*k)
		alg.half = make([]float64, k*k)
		alg.s = make([]float64, k)
		alg.all = make([]int, k)
		for j := range alg.all {
			alg.all[j] = j
		}
		alg.nb = nil
		if alg.neighbors {
			alg.nb = newNeighborSets(k, len(alg.ranges))
		}
	})
}

// Run implements Algorithm.
func (alg *Elkan) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Elkan) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Elkan) prepare() {
	alg.refreshHalfCenterDist(alg.half, alg.s)
	if alg.nb != nil {
		alg.nb.update(&alg.base, alg.upper, alg.half, nil)
	}
}

func (alg *Elkan) assignRange(w int, r pointRange) {
	k := alg.k
	for i := r.lo; i < r.hi; i++ {
		closest := alg.labels[i]
		if alg.upper[i] < alg.s[closest] {
			continue
		}

		lower := alg.lower[i*k : (i+1)*k]
		// best2 is the squared distance to closest once tight is set.
		// Candidates are ranked on squared distances, never on their roots.
		tight := false
		var best2 float64
		candidates := alg.all
		if alg.nb != nil {
			candidates = alg.nb.list[closest]
		}
		for _, j := range candidates {
			if j == closest || alg.upper[i] < lower[j] || alg.upper[i] < alg.half[closest*k+j] {
				continue
			}

			if !tight {
				best2 = alg.dist2(w, i, closest)
				alg.upper[i] = math.Sqrt(best2)
				lower[closest] = alg.upper[i]
				tight = true
				alg.ws[w].fullScans++
				if alg.upper[i] < lower[j] || alg.upper[i] < alg.half[closest*k+j] {
					continue
				}
			}

			d2 := alg.dist2(w, i, j)
			lower[j] = math.Sqrt(d2)
			if d2 < best2 || (d2 == best2 && j < closest) {
				closest = j
				best2 = d2
				alg.upper[i] = lower[j]
			}
		}

		if alg.labels[i] != closest {
			alg.reassign(w, i, closest)
		}
	}
}

func (alg *Elkan) updateBounds() {
	k := alg.k
	movement := alg.centers.movement
	alg.parallel(func(_ int, r pointRange) {
		for i := r.lo; i < r.hi; i++ {
			alg.upper[i] += movement[alg.labels[i]]
			lower := alg.lower[i*k : (i+1)*k]
			for j, m := range movement {
				lower[j] -= m
			}
		}
	})
}
