package fastkmeans

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Algorithm is one exact k-means variant. Every variant converges to the same
// assignment and centers as Naive for the same dataset and initial
// assignment; they differ only in how many distances they evaluate.
//
// An Algorithm is not safe for concurrent use. Separate instances may run
// concurrently on a shared Dataset.
type Algorithm interface {
	// Name returns a human-readable variant name.
	Name() string

	// Initialize binds the dataset, copies the initial assignment, places each
	// center at the mean of its assigned points and builds the variant's
	// bound caches.
	Initialize(ds *Dataset, k int, a *Assignment) error

	// Run iterates until no point changes center or maxIterations iterations
	// have run, and returns the number of iterations executed.
	Run(maxIterations int) (int, error)

	// RunContext is Run with cancellation, checked between iterations.
	RunContext(ctx context.Context, maxIterations int) (int, error)

	// Centers returns a copy of the current centers.
	Centers() *Centers

	// Assignment returns a copy of the current assignment.
	Assignment() *Assignment

	// Stats returns counters accumulated since Initialize.
	Stats() Stats

	// Converged reports whether the last Run ended on convergence.
	Converged() bool
}

var (
	_ Algorithm = (*Naive)(nil)
	_ Algorithm = (*Compare)(nil)
	_ Algorithm = (*Sort)(nil)
	_ Algorithm = (*Heap)(nil)
	_ Algorithm = (*Annulus)(nil)
	_ Algorithm = (*Hamerly)(nil)
	_ Algorithm = (*Elkan)(nil)
	_ Algorithm = (*Drake)(nil)
)

type factory func(lowerBounds int, opts []Option) Algorithm

var registry = map[string]factory{
	"naive":                func(_ int, o []Option) Algorithm { return NewNaive(o...) },
	"lloyd":                func(_ int, o []Option) Algorithm { return NewNaive(o...) },
	"compare":              func(_ int, o []Option) Algorithm { return NewCompare(o...) },
	"sort":                 func(_ int, o []Option) Algorithm { return NewSort(o...) },
	"heap":                 func(_ int, o []Option) Algorithm { return NewHeap(o...) },
	"annulus":              func(_ int, o []Option) Algorithm { return NewAnnulus(o...) },
	"norm":                 func(_ int, o []Option) Algorithm { return NewAnnulus(o...) },
	"hamerly":              func(_ int, o []Option) Algorithm { return NewHamerly(o...) },
	"hamerlyneighbors":     func(_ int, o []Option) Algorithm { return NewHamerlyNeighbors(o...) },
	"hamerlyneighborsonly": func(_ int, o []Option) Algorithm { return NewHamerlyNeighbors(o...) },
	"elkan":                func(_ int, o []Option) Algorithm { return NewElkan(o...) },
	"elkanneighbors":       func(_ int, o []Option) Algorithm { return NewElkanNeighbors(o...) },
	"drake":                func(b int, o []Option) Algorithm { return NewDrake(b, o...) },
	"adaptive":             func(_ int, o []Option) Algorithm { return NewAdaptiveDrake(o...) },
}

// New returns the variant registered under name. lowerBounds is the number of
// lower bounds for "drake" and is ignored by every other variant.
func New(name string, lowerBounds int, opts ...Option) (Algorithm, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, name)
	}
	return f(lowerBounds, opts), nil
}

// Names lists the registered variant names, aliases included.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// initialize runs setup followed by the variant's cache construction and
// logs the outcome.
func (b *base) initialize(ds *Dataset, k int, a *Assignment, build func()) error {
	ctx := context.Background()
	if err := b.setup(ds, k, a); err != nil {
		n := 0
		if ds != nil {
			n = ds.n
		}
		b.log.LogInitialize(ctx, n, k, b.opts.workers, err)
		return err
	}
	if build != nil {
		build()
	}
	b.log.LogInitialize(ctx, b.n, b.k, len(b.ranges), nil)
	return nil
}
