package fastkmeans

import (
	"context"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fastkmeans/distance"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// stepper is the per-variant part of a Lloyd iteration. The driver calls
// prepare once, assignRange once per worker range (concurrently when more
// than one worker is configured), moves the centers, and calls updateBounds
// unless the iteration converged.
type stepper interface {
	prepare()
	assignRange(w int, r pointRange)
	updateBounds()
}

type pointRange struct {
	lo, hi int
}

// base carries the state shared by every variant: the dataset, the centers,
// the assignment, the per-worker reduction buffers and the run statistics.
type base struct {
	name string
	opts options
	log  *Logger

	ds      *Dataset
	n, d, k int
	centers *Centers
	labels  []int

	ranges []pointRange
	ws     []workerStats
	sums   [][]float64
	counts [][]int
	next   []float64

	// moved holds the centers whose position changed since the inter-center
	// distances were last refreshed.
	moved *roaring.Bitmap
	// cc2 is the k×k matrix of squared inter-center distances, maintained
	// lazily by refreshCenterDist2 for the variants that need it.
	cc2 []float64

	initialized bool
	converged   bool
	stats       Stats
}

func newBase(name string, opts []Option) base {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return base{
		name: name,
		opts: o,
		log:  o.logger.WithAlgorithm(name),
	}
}

// Name returns the variant's name.
func (b *base) Name() string { return b.name }

// Centers returns a copy of the current centers, or nil before Initialize.
func (b *base) Centers() *Centers {
	if b.centers == nil {
		return nil
	}
	return b.centers.Clone()
}

// Assignment returns a copy of the current assignment, or nil before Initialize.
func (b *base) Assignment() *Assignment {
	if b.labels == nil {
		return nil
	}
	return &Assignment{labels: append([]int(nil), b.labels...)}
}

// Stats returns the statistics accumulated since Initialize.
func (b *base) Stats() Stats {
	st := b.stats
	st.History = append([]IterationStats(nil), b.stats.History...)
	return st
}

// Converged reports whether the last Run ended because no point changed center.
func (b *base) Converged() bool { return b.converged }

// setup validates the inputs, copies the initial assignment and places every
// center at the mean of its assigned points. Nothing is mutated unless every
// check passes.
func (b *base) setup(ds *Dataset, k int, a *Assignment) error {
	if a == nil {
		return invalidArgument("initial assignment is required")
	}
	if err := checkK(ds, k); err != nil {
		return err
	}
	if a.Len() != ds.n {
		return inconsistentState("assignment covers %d points, dataset has %d", a.Len(), ds.n)
	}
	if err := checkLabels(a, k); err != nil {
		return err
	}

	workers := min(b.opts.workers, ds.n)
	ranges := make([]pointRange, workers)
	chunk := (ds.n + workers - 1) / workers
	for w := range ranges {
		lo := min(w*chunk, ds.n)
		ranges[w] = pointRange{lo: lo, hi: min(lo+chunk, ds.n)}
	}

	b.ds = ds
	b.n, b.d, b.k = ds.n, ds.d, k
	b.labels = a.Labels()
	b.centers = newCenters(k, ds.d)
	b.ranges = ranges
	b.ws = make([]workerStats, workers)
	b.sums = make([][]float64, workers)
	b.counts = make([][]int, workers)
	for w := range b.sums {
		b.sums[w] = make([]float64, k*ds.d)
		b.counts[w] = make([]int, k)
	}
	b.next = make([]float64, ds.d)
	b.cc2 = nil
	b.converged = false
	b.stats = Stats{}

	b.moveCenters()
	clear(b.centers.movement)
	b.moved = roaring.New()
	b.moved.AddRange(0, uint64(k))
	b.initialized = true
	return nil
}

// run executes the Lloyd loop with the variant's pruning strategy.
func (b *base) run(ctx context.Context, maxIterations int, s stepper) (int, error) {
	if !b.initialized {
		return 0, inconsistentState("%s: run called before initialize", b.name)
	}
	if maxIterations < 1 {
		return 0, invalidArgument("max iterations %d must be at least 1", maxIterations)
	}

	start := time.Now()
	throttle := iterationThrottle()
	iterations := 0
	var err error

	for iterations < maxIterations && !b.converged {
		if err = ctx.Err(); err != nil {
			break
		}
		iterations++

		clear(b.ws)
		s.prepare()
		b.parallel(s.assignRange)

		it := IterationStats{Iteration: b.stats.Iterations + 1}
		for w := range b.ws {
			it.Changed += b.ws[w].changed
			it.DistanceEvaluations += b.ws[w].distances
			it.FullScans += b.ws[w].fullScans
		}

		b.moveCenters()
		b.converged = it.Changed == 0
		if !b.converged {
			s.updateBounds()
		}

		_, it.MaxMovement, _ = b.centers.furthestMoving()
		it.MovedCenters = int(b.moved.GetCardinality())
		if b.opts.sseHistory {
			it.SSE = sse(b.ds, b.centers, b.labels)
		}
		b.record(it)
		throttle.Do(func() { b.log.LogIteration(ctx, it) })
	}

	elapsed := time.Since(start)
	b.stats.Converged = b.converged
	b.log.LogRun(ctx, b.stats, elapsed, err)
	b.opts.metricsCollector.RecordRun(b.name, iterations, b.stats.DistanceEvaluations, elapsed, err)
	return iterations, err
}

func (b *base) record(it IterationStats) {
	b.stats.Iterations++
	b.stats.DistanceEvaluations += it.DistanceEvaluations
	b.stats.FullScans += it.FullScans
	b.stats.AssignmentChanges += int64(it.Changed)
	b.stats.History = append(b.stats.History, it)
	b.opts.metricsCollector.RecordIteration(b.name, it.Iteration, it.Changed, it.DistanceEvaluations)
}

// parallel runs fn once per worker range. Ranges are disjoint, so fn may
// write the per-point state of its own range without synchronization.
func (b *base) parallel(fn func(w int, r pointRange)) {
	if len(b.ranges) == 1 {
		fn(0, b.ranges[0])
		return
	}
	var g errgroup.Group
	for w, r := range b.ranges {
		g.Go(func() error {
			fn(w, r)
			return nil
		})
	}
	_ = g.Wait()
}

// moveCenters recomputes every center as the mean of its assigned points,
// records how far each center moved and which centers moved at all. A center
// without points keeps its position.
func (b *base) moveCenters() {
	b.parallel(func(w int, r pointRange) {
		sums, counts := b.sums[w], b.counts[w]
		clear(sums)
		clear(counts)
		for i := r.lo; i < r.hi; i++ {
			c := b.labels[i]
			floats.Add(sums[c*b.d:(c+1)*b.d], b.ds.row(i))
			counts[c]++
		}
	})

	total, count := b.sums[0], b.counts[0]
	for w := 1; w < len(b.sums); w++ {
		floats.Add(total, b.sums[w])
		for j, c := range b.counts[w] {
			count[j] += c
		}
	}

	if b.moved == nil {
		b.moved = roaring.New()
	}
	b.moved.Clear()
	for j := 0; j < b.k; j++ {
		if count[j] == 0 {
			b.centers.movement[j] = 0
			continue
		}
		floats.ScaleTo(b.next, 1/float64(count[j]), total[j*b.d:(j+1)*b.d])
		cur := b.centers.row(j)
		m := distance.L2(cur, b.next)
		b.centers.movement[j] = m
		if m > 0 {
			copy(cur, b.next)
			b.moved.Add(uint32(j))
		}
	}
}

// dist2 returns the squared distance between point i and center j and counts
// the evaluation against worker w.
func (b *base) dist2(w, i, j int) float64 {
	b.ws[w].distances++
	return distance.SquaredL2(b.ds.row(i), b.centers.row(j))
}

// reassign moves point i to center c.
func (b *base) reassign(w, i, c int) {
	b.labels[i] = c
	b.ws[w].changed++
}

// refreshCenterDist2 recomputes the squared distance of every center pair
// touching a moved center. onPair, when non-nil, is called with each refreshed
// pair (a < c) so variants can keep derived matrices in step.
func (b *base) refreshCenterDist2(onPair func(a, c int)) {
	if b.cc2 == nil {
		b.cc2 = make([]float64, b.k*b.k)
	}
	it := b.moved.Iterator()
	for it.HasNext() {
		a := int(it.Next())
		for c := 0; c < b.k; c++ {
			if c == a || (c < a && b.moved.Contains(uint32(c))) {
				continue
			}
			lo, hi := min(a, c), max(a, c)
			d2 := b.centers.dist2(lo, hi)
			b.cc2[lo*b.k+hi] = d2
			b.cc2[hi*b.k+lo] = d2
			if onPair != nil {
				onPair(lo, hi)
			}
		}
	}
	b.moved.Clear()
}

// refreshHalfCenterDist brings half[a*k+c], half the distance between
// centers a and c, up to date and fills s[c] with half the distance from c to
// its nearest other center.
func (b *base) refreshHalfCenterDist(half, s []float64) {
	k := b.k
	b.refreshCenterDist2(func(a, c int) {
		h := math.Sqrt(b.cc2[a*k+c]) / 2
		half[a*k+c] = h
		half[c*k+a] = h
	})
	for a := 0; a < k; a++ {
		m := math.MaxFloat64
		for c := 0; c < k; c++ {
			if c != a && half[a*k+c] < m {
				m = half[a*k+c]
			}
		}
		s[a] = m
	}
}

// scan compares point i against every center. u2 is the squared distance to
// the assigned center if already known, or negative. It returns the nearest
// center (lowest index on ties), its squared distance, and the runner-up's
// index and squared distance (+Inf when k is one).
func (b *base) scan(w, i int, u2 float64) (closest int, best float64, second int, l2 float64) {
	b.ws[w].fullScans++
	closest = b.labels[i]
	if u2 < 0 {
		u2 = b.dist2(w, i, closest)
	}
	best = u2
	second, l2 = -1, math.Inf(1)
	for j := 0; j < b.k; j++ {
		if j == b.labels[i] {
			continue
		}
		d2 := b.dist2(w, i, j)
		if d2 < best || (d2 == best && j < closest) {
			second, l2 = closest, best
			closest, best = j, d2
		} else if d2 < l2 {
			second, l2 = j, d2
		}
	}
	return closest, best, second, l2
}
