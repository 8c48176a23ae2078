package fastkmeans

import (
	"cmp"
	"context"
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/fastkmeans/distance"
)

// Annulus extends Hamerly with an annulus search. Centers are sorted by their
// distance to a fixed reference point, the dataset mean. When a point fails
// the Hamerly tests only centers whose reference distance lies within
// max(lower, upper) of the point's own reference distance can be nearer, so
// only those are compared.
type Annulus struct {
	Hamerly

	// norm[i] is the distance from point i to the reference point.
	norm []float64
	// guard[i] is a center other than the assigned one, believed to be
	// the second nearest.
	guard []int
	order []annulusEntry
	ref   []float64
}

type annulusEntry struct {
	norm   float64
	center int
}

// NewAnnulus creates an annulus variant.
func NewAnnulus(opts ...Option) *Annulus {
	return &Annulus{Hamerly: Hamerly{base: newBase("annulus", opts)}}
}

// Initialize implements Algorithm.
func (alg *Annulus) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, func() {
		alg.build()
		alg.ref = ds.Mean()
		alg.norm = make([]float64, alg.n)
		alg.guard = make([]int, alg.n)
		for i := range alg.norm {
			alg.norm[i] = distance.L2(ds.row(i), alg.ref)
			alg.guard[i] = (alg.labels[i] + 1) % k
		}
		alg.order = make([]annulusEntry, k)
	})
}

// Run implements Algorithm.
func (alg *Annulus) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Annulus) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Annulus) prepare() {
	alg.Hamerly.prepare()
	for c := range alg.order {
		alg.order[c] = annulusEntry{norm: distance.L2(alg.centers.row(c), alg.ref), center: c}
	}
	slices.SortFunc(alg.order, func(a, b annulusEntry) int {
		if c := cmp.Compare(a.norm, b.norm); c != 0 {
			return c
		}
		return cmp.Compare(a.center, b.center)
	})
}

func (alg *Annulus) assignRange(w int, r pointRange) {
	for i := r.lo; i < r.hi; i++ {
		ok, u2 := alg.certified(w, i)
		if ok {
			continue
		}
		alg.ws[w].fullScans++

		closest := alg.labels[i]
		l2 := math.Inf(1)
		beta := alg.upper[i]
		g := alg.guard[i]
		if g != closest {
			d2 := alg.dist2(w, i, g)
			beta = max(beta, math.Sqrt(d2))
			closest, u2, l2 = alg.consider(i, g, d2, closest, u2, l2)
		}

		xn := alg.norm[i]
		lo := sort.Search(len(alg.order), func(o int) bool { return alg.order[o].norm >= xn-beta })
		hi := sort.Search(len(alg.order), func(o int) bool { return alg.order[o].norm > xn+beta })
		for _, e := range alg.order[lo:hi] {
			if e.center == alg.labels[i] || e.center == g {
				continue
			}
			closest, u2, l2 = alg.consider(i, e.center, alg.dist2(w, i, e.center), closest, u2, l2)
		}

		alg.lower[i] = math.Sqrt(l2)
		if alg.labels[i] != closest {
			alg.upper[i] = math.Sqrt(u2)
			alg.reassign(w, i, closest)
		}
	}
}

// consider folds the squared distance d2 from point i to center j into the
// running nearest (closest, u2) and runner-up l2, keeping the guard on the
// runner-up.
func (alg *Annulus) consider(i, j int, d2 float64, closest int, u2, l2 float64) (int, float64, float64) {
	switch {
	case d2 < u2 || (d2 == u2 && j < closest):
		alg.guard[i] = closest
		return j, d2, u2
	case d2 < l2:
		alg.guard[i] = j
		return closest, u2, d2
	}
	return closest, u2, l2
}
