package fastkmeans

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/fastkmeans/distance"
)

// Center is a snapshot of one centroid.
type Center struct {
	// Index identifies the center in [0, k).
	Index int
	// Coords holds the centroid position.
	Coords []float64
	// Movement is the distance the center moved in its most recent update.
	Movement float64
}

// Centers stores k centroids in one contiguous row-major slice together with
// the distance each center moved in its latest update.
type Centers struct {
	k, d     int
	data     []float64
	movement []float64
}

// NewCenters allocates k zero-filled centers in d dimensions.
func NewCenters(k, d int) (*Centers, error) {
	if k < 1 || d < 1 {
		return nil, invalidArgument("centers shape (%d, %d) must be positive", k, d)
	}
	return newCenters(k, d), nil
}

func newCenters(k, d int) *Centers {
	return &Centers{
		k:        k,
		d:        d,
		data:     make([]float64, k*d),
		movement: make([]float64, k),
	}
}

// K returns the number of centers.
func (c *Centers) K() int { return c.k }

// D returns the dimensionality.
func (c *Centers) D() int { return c.d }

// At returns coordinate t of center j.
func (c *Centers) At(j, t int) (float64, error) {
	if err := c.check(j, t); err != nil {
		return 0, err
	}
	return c.data[j*c.d+t], nil
}

// Set writes coordinate t of center j.
func (c *Centers) Set(j, t int, v float64) error {
	if err := c.check(j, t); err != nil {
		return err
	}
	c.data[j*c.d+t] = v
	return nil
}

func (c *Centers) check(j, t int) error {
	if err := checkIndex("center", j, c.k); err != nil {
		return err
	}
	return checkIndex("dimension", t, c.d)
}

// Center returns a snapshot of center j.
func (c *Centers) Center(j int) (Center, error) {
	if err := checkIndex("center", j, c.k); err != nil {
		return Center{}, err
	}
	coords := make([]float64, c.d)
	copy(coords, c.row(j))
	return Center{Index: j, Coords: coords, Movement: c.movement[j]}, nil
}

// Movement returns the distance center j moved in its latest update.
func (c *Centers) Movement(j int) (float64, error) {
	if err := checkIndex("center", j, c.k); err != nil {
		return 0, err
	}
	return c.movement[j], nil
}

// Rows returns a copy of all center positions.
func (c *Centers) Rows() [][]float64 {
	rows := make([][]float64, c.k)
	for j := range rows {
		rows[j] = make([]float64, c.d)
		copy(rows[j], c.row(j))
	}
	return rows
}

// Clone returns a deep copy.
func (c *Centers) Clone() *Centers {
	out := newCenters(c.k, c.d)
	copy(out.data, c.data)
	copy(out.movement, c.movement)
	return out
}

func (c *Centers) row(j int) []float64 {
	return c.data[j*c.d : (j+1)*c.d]
}

// dist2 returns the squared distance between centers a and b.
func (c *Centers) dist2(a, b int) float64 {
	return distance.SquaredL2(c.row(a), c.row(b))
}

// furthestMoving returns the index of the center with the largest movement,
// that movement, and the largest movement among all other centers.
func (c *Centers) furthestMoving() (furthest int, longest, second float64) {
	longest = c.movement[0]
	for j := 1; j < c.k; j++ {
		m := c.movement[j]
		if m > longest {
			second = longest
			longest = m
			furthest = j
		} else if m > second {
			second = m
		}
	}
	return furthest, longest, second
}

// Print writes one line per center listing its coordinates.
func (c *Centers) Print(w io.Writer) error {
	_, err := io.WriteString(w, c.String())
	return err
}

// String renders one line per center: its index followed by its coordinates.
func (c *Centers) String() string {
	var sb strings.Builder
	for j := 0; j < c.k; j++ {
		fmt.Fprintf(&sb, "%d:", j)
		for _, v := range c.row(j) {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
