package fastkmeans

import "math"

// neighborSets narrows the candidates of every center to the centers that can
// be nearest to one of its points. A point assigned to c lies within the
// largest upper bound of c's points, so any center nearer to it than c is
// within twice that bound of c.
type neighborSets struct {
	// list[c] holds the other centers whose half distance to c does not
	// exceed the largest upper bound of c's points plus slack.
	list [][]int
	// far[c] is the smallest half distance from c to a center outside
	// list[c], or +Inf when list[c] holds every other center.
	far []float64

	bound   []float64
	partial [][]float64
}

func newNeighborSets(k, workers int) *neighborSets {
	ns := &neighborSets{
		list:    make([][]int, k),
		far:     make([]float64, k),
		bound:   make([]float64, k),
		partial: make([][]float64, workers),
	}
	for c := range ns.list {
		ns.list[c] = make([]int, 0, k-1)
	}
	for w := range ns.partial {
		ns.partial[w] = make([]float64, k)
	}
	return ns
}

// update rebuilds every neighbor list from the current upper bounds and half
// inter-center distances. slack, when non-nil, widens the limit of each
// center.
func (ns *neighborSets) update(b *base, upper, half, slack []float64) {
	k := b.k
	b.parallel(func(w int, r pointRange) {
		m := ns.partial[w]
		clear(m)
		for i := r.lo; i < r.hi; i++ {
			if c := b.labels[i]; upper[i] > m[c] {
				m[c] = upper[i]
			}
		}
	})
	copy(ns.bound, ns.partial[0])
	for _, m := range ns.partial[1:] {
		for c, u := range m {
			ns.bound[c] = max(ns.bound[c], u)
		}
	}

	for c := 0; c < k; c++ {
		limit := ns.bound[c]
		if slack != nil {
			limit += slack[c]
		}
		list := ns.list[c][:0]
		far := math.Inf(1)
		for j := 0; j < k; j++ {
			if j == c {
				continue
			}
			if h := half[c*k+j]; h <= limit {
				list = append(list, j)
			} else if h < far {
				far = h
			}
		}
		ns.list[c] = list
		ns.far[c] = far
	}
}

// size returns the total number of neighbor entries.
func (ns *neighborSets) size() int {
	n := 0
	for _, l := range ns.list {
		n += len(l)
	}
	return n
}
