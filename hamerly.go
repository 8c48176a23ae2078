package fastkmeans

import (
	"context"
	"math"
)

// Hamerly implements Hamerly's algorithm: one upper bound on the distance to
// the assigned center and one lower bound on the distance to every other
// center, per point. A point is skipped while its upper bound stays below
// both its lower bound and half the distance from its center to the nearest
// other center.
type Hamerly struct {
	base

	upper []float64
	lower []float64
	// half[a*k+c] is half the distance between centers a and c.
	half []float64
	// s[c] is half the distance from c to its nearest other center.
	s []float64

	// nb restricts full scans to neighboring centers when non-nil.
	nb        *neighborSets
	neighbors bool
}

// NewHamerly creates a Hamerly variant.
func NewHamerly(opts ...Option) *Hamerly {
	return &Hamerly{base: newBase("hamerly", opts)}
}

// NewHamerlyNeighbors creates a Hamerly variant whose full scans only visit
// the centers near enough to the assigned one to be nearest. The lower bound
// of a scanned point also covers the skipped centers.
func NewHamerlyNeighbors(opts ...Option) *Hamerly {
	return &Hamerly{base: newBase("hamerlyneighbors", opts), neighbors: true}
}

// Initialize implements Algorithm.
func (alg *Hamerly) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, alg.build)
}

func (alg *Hamerly) build() {
	alg.upper = make([]float64, alg.n)
	alg.lower = make([]float64, alg.n)
	for i := range alg.upper {
		alg.upper[i] = math.Inf(1)
	}
	alg.half = make([]float64, alg.k*alg.k)
	alg.s = make([]float64, alg.k)
	alg.nb = nil
	if alg.neighbors {
		alg.nb = newNeighborSets(alg.k, len(alg.ranges))
	}
}

// Run implements Algorithm.
func (alg *Hamerly) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Hamerly) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Hamerly) prepare() {
	alg.refreshHalfCenterDist(alg.half, alg.s)
	if alg.nb != nil {
		alg.nb.update(&alg.base, alg.upper, alg.half, alg.s)
	}
}

// certified reports whether point i provably keeps its center, tightening
// the upper bound to the exact distance on the way. It returns the squared
// distance when it had to compute it, or -1.
func (alg *Hamerly) certified(w, i int) (bool, float64) {
	closest := alg.labels[i]
	bound := max(alg.s[closest], alg.lower[i])
	if alg.upper[i] < bound {
		return true, -1
	}
	u2 := alg.dist2(w, i, closest)
	alg.upper[i] = math.Sqrt(u2)
	return alg.upper[i] < bound, u2
}

func (alg *Hamerly) assignRange(w int, r pointRange) {
	for i := r.lo; i < r.hi; i++ {
		ok, u2 := alg.certified(w, i)
		if ok {
			continue
		}
		var closest int
		if alg.nb != nil {
			closest, u2, alg.lower[i] = alg.scanNeighbors(w, i, u2)
		} else {
			var l2 float64
			closest, u2, _, l2 = alg.scan(w, i, u2)
			alg.lower[i] = math.Sqrt(l2)
		}
		if alg.labels[i] != closest {
			alg.upper[i] = math.Sqrt(u2)
			alg.reassign(w, i, closest)
		}
	}
}

// scanNeighbors is scan restricted to the neighbors of the assigned center.
// u2 is the squared distance to the assigned center. It returns the nearest
// center, its squared distance and a lower bound on the distance to every
// other center, the skipped ones included.
func (alg *Hamerly) scanNeighbors(w, i int, u2 float64) (int, float64, float64) {
	alg.ws[w].fullScans++
	label := alg.labels[i]
	closest, best := label, u2
	l2 := math.Inf(1)
	for _, j := range alg.nb.list[label] {
		d2 := alg.dist2(w, i, j)
		if d2 < best || (d2 == best && j < closest) {
			l2 = best
			closest, best = j, d2
		} else if d2 < l2 {
			l2 = d2
		}
	}
	// d(x, c) >= d(label, c) - d(x, label) for every skipped center c.
	far := max(2*alg.nb.far[label]-math.Sqrt(u2), 0)
	return closest, best, min(math.Sqrt(l2), far)
}

func (alg *Hamerly) updateBounds() {
	furthest, longest, second := alg.centers.furthestMoving()
	movement := alg.centers.movement
	alg.parallel(func(_ int, r pointRange) {
		for i := r.lo; i < r.hi; i++ {
			c := alg.labels[i]
			alg.upper[i] += movement[c]
			if c == furthest {
				alg.lower[i] -= second
			} else {
				alg.lower[i] -= longest
			}
		}
	})
}
