package fastkmeans

import (
	"fmt"
	"math"

	"github.com/hupe1980/fastkmeans/distance"
	"gonum.org/v1/gonum/floats"
)

// Dataset is an immutable store of n points in d dimensions.
//
// Points live in one contiguous row-major slice. Coordinates are populated
// through Set after NewDataset; algorithms only read them, so a populated
// Dataset is safe to share between concurrent algorithm runs.
type Dataset struct {
	n, d int
	data []float64
}

// NewDataset allocates a zero-filled dataset of n points in d dimensions.
func NewDataset(n, d int) (*Dataset, error) {
	if err := checkShape(n, d); err != nil {
		return nil, err
	}
	return &Dataset{n: n, d: d, data: make([]float64, n*d)}, nil
}

// checkShape rejects non-positive shapes and shapes whose value count does
// not fit in an int.
func checkShape(n, d int) error {
	if n < 1 || d < 1 {
		return invalidArgument("dataset shape (%d, %d) must be positive", n, d)
	}
	if d > math.MaxInt/n {
		return invalidArgument("dataset shape (%d, %d) is too large", n, d)
	}
	return nil
}

// NewDatasetFromRows builds a dataset from equal-length rows.
func NewDatasetFromRows(rows [][]float64) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, invalidArgument("dataset needs at least one row")
	}
	ds, err := NewDataset(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != ds.d {
			return nil, fmt.Errorf("row %d: %w", i, &ErrDimensionMismatch{Expected: ds.d, Actual: len(row)})
		}
		copy(ds.data[i*ds.d:], row)
	}
	return ds, nil
}

// N returns the number of points.
func (ds *Dataset) N() int { return ds.n }

// D returns the dimensionality.
func (ds *Dataset) D() int { return ds.d }

// Set writes coordinate j of point i.
func (ds *Dataset) Set(i, j int, v float64) error {
	if err := ds.check(i, j); err != nil {
		return err
	}
	ds.data[i*ds.d+j] = v
	return nil
}

// At returns coordinate j of point i.
func (ds *Dataset) At(i, j int) (float64, error) {
	if err := ds.check(i, j); err != nil {
		return 0, err
	}
	return ds.data[i*ds.d+j], nil
}

func (ds *Dataset) check(i, j int) error {
	if err := checkIndex("point", i, ds.n); err != nil {
		return err
	}
	return checkIndex("dimension", j, ds.d)
}

// Point returns a copy of point i.
func (ds *Dataset) Point(i int) ([]float64, error) {
	if err := checkIndex("point", i, ds.n); err != nil {
		return nil, err
	}
	p := make([]float64, ds.d)
	copy(p, ds.row(i))
	return p, nil
}

// row returns a view of point i without bounds checks beyond the slice's own.
func (ds *Dataset) row(i int) []float64 {
	return ds.data[i*ds.d : (i+1)*ds.d]
}

// Dist2 returns the squared Euclidean distance between point i and center j.
func (ds *Dataset) Dist2(i int, c *Centers, j int) (float64, error) {
	if c.d != ds.d {
		return 0, &ErrDimensionMismatch{Expected: ds.d, Actual: c.d}
	}
	if err := checkIndex("point", i, ds.n); err != nil {
		return 0, err
	}
	if err := checkIndex("center", j, c.k); err != nil {
		return 0, err
	}
	return distance.SquaredL2(ds.row(i), c.row(j)), nil
}

// Mean returns the coordinate-wise mean of all points.
func (ds *Dataset) Mean() []float64 {
	mean := make([]float64, ds.d)
	for i := 0; i < ds.n; i++ {
		floats.Add(mean, ds.row(i))
	}
	floats.Scale(1/float64(ds.n), mean)
	return mean
}

// CenterDataset returns a copy of ds translated so that its mean is the origin.
func CenterDataset(ds *Dataset) *Dataset {
	mean := ds.Mean()
	out := &Dataset{n: ds.n, d: ds.d, data: make([]float64, len(ds.data))}
	for i := 0; i < ds.n; i++ {
		floats.SubTo(out.row(i), ds.row(i), mean)
	}
	return out
}

// String renders the dataset shape.
func (ds *Dataset) String() string {
	return fmt.Sprintf("Dataset(n=%d, d=%d)", ds.n, ds.d)
}
