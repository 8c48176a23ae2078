package fastkmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a bad k, a bad number of Drake lower
	// bounds, a bad iteration cap or mismatched dimensionality.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when a coordinate or index access is beyond bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrInconsistentState is returned when an operation is called in the wrong
	// lifecycle state, e.g. Run before Initialize, or when an Assignment does not
	// belong to the dataset it is used with.
	ErrInconsistentState = errors.New("inconsistent state")
)

// ErrDimensionMismatch indicates that two objects disagree on dimensionality.
//
// It matches ErrInvalidArgument with errors.Is.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return ErrInvalidArgument }

// ErrIndexOutOfRange indicates an index access beyond [0, Limit).
//
// It matches ErrOutOfRange with errors.Is.
type ErrIndexOutOfRange struct {
	Name  string
	Index int
	Limit int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Name, e.Index, e.Limit)
}

func (e *ErrIndexOutOfRange) Unwrap() error { return ErrOutOfRange }

func checkIndex(name string, i, limit int) error {
	if i < 0 || i >= limit {
		return &ErrIndexOutOfRange{Name: name, Index: i, Limit: limit}
	}
	return nil
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func inconsistentState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...))
}
