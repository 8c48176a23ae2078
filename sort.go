package fastkmeans

import (
	"cmp"
	"context"
	"slices"
)

// Sort implements Phillips' sort-means. Each iteration every center gets the
// list of all centers ordered by squared distance to it (divided by four).
// A point scans the list of its current best center in order and stops at the
// first entry whose quarter squared distance exceeds the point's best squared
// distance; no later entry can be closer. When the best center changes the
// scan restarts on the new center's list.
type Sort struct {
	base

	// sorted holds k rows of k entries; row c lists every center ordered by
	// ascending (quarter squared distance to c, index).
	sorted []sortEntry
}

type sortEntry struct {
	quarter float64
	center  int
}

func compareSortEntries(a, b sortEntry) int {
	if c := cmp.Compare(a.quarter, b.quarter); c != 0 {
		return c
	}
	return cmp.Compare(a.center, b.center)
}

// NewSort creates a sort-means variant.
func NewSort(opts ...Option) *Sort {
	return &Sort{base: newBase("sort", opts)}
}

// Initialize implements Algorithm.
func (alg *Sort) Initialize(ds *Dataset, k int, a *Assignment) error {
	return alg.initialize(ds, k, a, func() {
		alg.sorted = make([]sortEntry, k*k)
	})
}

// Run implements Algorithm.
func (alg *Sort) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Sort) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Sort) prepare() {
	k := alg.k
	refreshed := false
	alg.refreshCenterDist2(func(int, int) { refreshed = true })
	if !refreshed && alg.stats.Iterations > 0 {
		return
	}
	for c := 0; c < k; c++ {
		row := alg.sorted[c*k : (c+1)*k]
		for j := range row {
			row[j] = sortEntry{quarter: alg.cc2[c*k+j] / 4, center: j}
		}
		slices.SortFunc(row, compareSortEntries)
	}
}

func (alg *Sort) assignRange(w int, r pointRange) {
	k := alg.k
	for i := r.lo; i < r.hi; i++ {
		closest := alg.labels[i]
		best := alg.dist2(w, i, closest)

		row := alg.sorted[closest*k : (closest+1)*k]
		for o := 0; o < k; o++ {
			e := row[o]
			if best < e.quarter {
				break
			}
			if e.center == closest {
				continue
			}
			d2 := alg.dist2(w, i, e.center)
			if d2 < best || (d2 == best && e.center < closest) {
				best = d2
				closest = e.center
				row = alg.sorted[closest*k : (closest+1)*k]
				o = -1
			}
		}

		if alg.labels[i] != closest {
			alg.reassign(w, i, closest)
		}
	}
}

func (alg *Sort) updateBounds() {}
