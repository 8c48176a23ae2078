package fastkmeans

import (
	"cmp"
	"context"
	"math"
	"slices"
)

// Drake implements Drake and Hamerly's algorithm. Each point keeps an upper
// bound on its assigned center and b ordered lower bounds on its b nearest
// other centers, the last of which also bounds every center beyond them. The
// first lower bound exceeding the upper bound catches the point: only the
// centers inside it are re-sorted. A point no bound catches is compared
// against every center.
type Drake struct {
	base

	b        int
	adaptive bool
	// active is the number of lower bounds in use, b unless adapting.
	active int

	upper []float64
	// lower[i*b+j] bounds the distance from point i to near[i*b+j] and to
	// every center beyond it.
	lower []float64
	near  []int

	order      [][]drakeEntry
	maxCatcher []int
}

type drakeEntry struct {
	d2     float64
	center int
}

func compareDrakeEntries(a, b drakeEntry) int {
	if c := cmp.Compare(a.d2, b.d2); c != 0 {
		return c
	}
	return cmp.Compare(a.center, b.center)
}

// NewDrake creates a Drake variant with b lower bounds per point. b must lie
// in [1, k) for the k passed to Initialize.
func NewDrake(b int, opts ...Option) *Drake {
	return &Drake{base: newBase("drake", opts), b: b}
}

// NewAdaptiveDrake creates a Drake variant that picks b = max(2, k/4) at
// Initialize, kept below k, and after ten iterations shrinks the number of
// bounds in use to the deepest bound that still catches points.
func NewAdaptiveDrake(opts ...Option) *Drake {
	return &Drake{base: newBase("adaptive", opts), adaptive: true}
}

// LowerBounds returns the number of lower bounds per point.
func (alg *Drake) LowerBounds() int { return alg.b }

// ActiveBounds returns the number of lower bounds currently in use.
func (alg *Drake) ActiveBounds() int { return alg.active }

// Initialize implements Algorithm.
func (alg *Drake) Initialize(ds *Dataset, k int, a *Assignment) error {
	if alg.adaptive {
		alg.b = min(max(2, k/4), k-1)
	}
	if alg.b < 1 || alg.b >= k {
		return invalidArgument("drake needs 1 <= b < k, got b=%d k=%d", alg.b, k)
	}
	return alg.initialize(ds, k, a, func() {
		b := alg.b
		alg.active = b
		alg.upper = make([]float64, alg.n)
		for i := range alg.upper {
			alg.upper[i] = math.Inf(1)
		}
		alg.lower = make([]float64, alg.n*b)
		alg.near = make([]int, alg.n*b)
		for i := 0; i < alg.n; i++ {
			for j := 0; j < b; j++ {
				alg.near[i*b+j] = j + 1
			}
		}
		alg.order = make([][]drakeEntry, len(alg.ranges))
		for w := range alg.order {
			alg.order[w] = make([]drakeEntry, k)
		}
		alg.maxCatcher = make([]int, len(alg.ranges))
	})
}

// Run implements Algorithm.
func (alg *Drake) Run(maxIterations int) (int, error) {
	return alg.RunContext(context.Background(), maxIterations)
}

// RunContext implements Algorithm.
func (alg *Drake) RunContext(ctx context.Context, maxIterations int) (int, error) {
	return alg.run(ctx, maxIterations, alg)
}

func (alg *Drake) prepare() {
	clear(alg.maxCatcher)
}

func (alg *Drake) assignRange(w int, r pointRange) {
	b, active := alg.b, alg.active
	for i := r.lo; i < r.hi; i++ {
		lower := alg.lower[i*b : i*b+active]

		caught := -1
		for c, l := range lower {
			if alg.upper[i] < l {
				caught = c
				break
			}
		}

		if caught < 0 {
			alg.findNear(w, i)
			continue
		}
		if caught+1 < active {
			alg.maxCatcher[w] = max(alg.maxCatcher[w], caught+1)
		}
		if caught > 0 {
			alg.reorderNear(w, i, caught)
		}
	}
}

// findNear sorts every center by distance to point i and rebuilds its bounds.
func (alg *Drake) findNear(w, i int) {
	b, active := alg.b, alg.active
	alg.ws[w].fullScans++

	order := alg.order[w]
	for j := range order {
		order[j] = drakeEntry{d2: alg.dist2(w, i, j), center: j}
	}
	slices.SortFunc(order, compareDrakeEntries)

	if alg.labels[i] != order[0].center {
		alg.reassign(w, i, order[0].center)
	}
	alg.upper[i] = math.Sqrt(order[0].d2)
	for j := 0; j < active; j++ {
		alg.near[i*b+j] = order[j+1].center
		alg.lower[i*b+j] = math.Sqrt(order[j+1].d2)
	}
}

// reorderNear re-sorts the assigned center and the first caught near centers
// of point i, the only candidates the catching bound leaves open.
func (alg *Drake) reorderNear(w, i, caught int) {
	b := alg.b
	order := alg.order[w][:caught+1]
	order[0] = drakeEntry{d2: alg.dist2(w, i, alg.labels[i]), center: alg.labels[i]}
	for j := 0; j < caught; j++ {
		c := alg.near[i*b+j]
		order[j+1] = drakeEntry{d2: alg.dist2(w, i, c), center: c}
	}
	slices.SortFunc(order, compareDrakeEntries)

	if alg.labels[i] != order[0].center {
		alg.reassign(w, i, order[0].center)
	}
	alg.upper[i] = math.Sqrt(order[0].d2)
	for j := 0; j < caught; j++ {
		alg.near[i*b+j] = order[j+1].center
		alg.lower[i*b+j] = math.Sqrt(order[j+1].d2)
	}
}

func (alg *Drake) updateBounds() {
	b, active := alg.b, alg.active
	movement := alg.centers.movement
	_, longest, _ := alg.centers.furthestMoving()

	alg.parallel(func(_ int, r pointRange) {
		for i := r.lo; i < r.hi; i++ {
			alg.upper[i] += movement[alg.labels[i]]

			lower := alg.lower[i*b : i*b+active]
			near := alg.near[i*b : i*b+active]
			for j := 0; j < active-1; j++ {
				lower[j] -= movement[near[j]]
			}
			lower[active-1] -= longest
			for j := active - 2; j >= 0; j-- {
				if lower[j+1] < lower[j] {
					lower[j] = lower[j+1]
				}
			}
		}
	})

	if !alg.adaptive || alg.stats.Iterations+1 <= 10 {
		return
	}
	maxCatcher := slices.Max(alg.maxCatcher)
	if alg.k>>3 <= maxCatcher {
		alg.active = max(maxCatcher, 1)
	}
}
