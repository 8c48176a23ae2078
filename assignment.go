package fastkmeans

import (
	"math"

	"github.com/hupe1980/fastkmeans/distance"
)

// Assignment maps every point index to the index of its current center.
//
// A new Assignment maps every point to center 0, which is valid for any k.
type Assignment struct {
	labels []int
}

// NewAssignment allocates an assignment for n points.
func NewAssignment(n int) (*Assignment, error) {
	if n < 1 {
		return nil, invalidArgument("assignment size %d must be positive", n)
	}
	return &Assignment{labels: make([]int, n)}, nil
}

// Len returns the number of points covered.
func (a *Assignment) Len() int { return len(a.labels) }

// Get returns the center assigned to point i.
func (a *Assignment) Get(i int) (int, error) {
	if err := checkIndex("point", i, len(a.labels)); err != nil {
		return 0, err
	}
	return a.labels[i], nil
}

// Set assigns point i to center c. The center index is only checked for being
// non-negative here; Assign and Initialize validate it against k.
func (a *Assignment) Set(i, c int) error {
	if err := checkIndex("point", i, len(a.labels)); err != nil {
		return err
	}
	if c < 0 {
		return &ErrIndexOutOfRange{Name: "center", Index: c, Limit: math.MaxInt}
	}
	a.labels[i] = c
	return nil
}

// Labels returns a copy of the point-to-center mapping.
func (a *Assignment) Labels() []int {
	out := make([]int, len(a.labels))
	copy(out, a.labels)
	return out
}

// Clone returns a deep copy.
func (a *Assignment) Clone() *Assignment {
	return &Assignment{labels: a.Labels()}
}

// Equal reports whether both assignments map every point to the same center.
func (a *Assignment) Equal(other *Assignment) bool {
	if len(a.labels) != len(other.labels) {
		return false
	}
	for i, c := range a.labels {
		if other.labels[i] != c {
			return false
		}
	}
	return true
}

// Counts returns the number of points assigned to each of k centers.
func (a *Assignment) Counts(k int) []int {
	counts := make([]int, k)
	for _, c := range a.labels {
		if c < k {
			counts[c]++
		}
	}
	return counts
}

// Assign performs one full nearest-center pass, writing the index of the
// closest center of every point into a. Ties go to the lowest center index.
func Assign(ds *Dataset, c *Centers, a *Assignment) error {
	if err := checkShapes(ds, c, a); err != nil {
		return err
	}
	for i := 0; i < ds.n; i++ {
		a.labels[i], _ = nearest(ds.row(i), c)
	}
	return nil
}

// nearest returns the closest center to x and the squared distance to it.
func nearest(x []float64, c *Centers) (int, float64) {
	closest := 0
	best := math.MaxFloat64
	for j := 0; j < c.k; j++ {
		d2 := distance.SquaredL2(x, c.row(j))
		if d2 < best {
			best = d2
			closest = j
		}
	}
	return closest, best
}

// SSE returns the sum of squared distances from every point to its assigned
// center, the k-means objective.
func SSE(ds *Dataset, c *Centers, a *Assignment) (float64, error) {
	if err := checkShapes(ds, c, a); err != nil {
		return 0, err
	}
	if err := checkLabels(a, c.k); err != nil {
		return 0, err
	}
	return sse(ds, c, a.labels), nil
}

func sse(ds *Dataset, c *Centers, labels []int) float64 {
	var total float64
	for i, j := range labels {
		total += distance.SquaredL2(ds.row(i), c.row(j))
	}
	return total
}

func checkShapes(ds *Dataset, c *Centers, a *Assignment) error {
	if ds == nil || c == nil || a == nil {
		return invalidArgument("dataset, centers and assignment are required")
	}
	if c.d != ds.d {
		return &ErrDimensionMismatch{Expected: ds.d, Actual: c.d}
	}
	if len(a.labels) != ds.n {
		return inconsistentState("assignment covers %d points, dataset has %d", len(a.labels), ds.n)
	}
	return nil
}

func checkLabels(a *Assignment, k int) error {
	for i, c := range a.labels {
		if c >= k {
			return inconsistentState("point %d assigned to center %d, k is %d", i, c, k)
		}
	}
	return nil
}
