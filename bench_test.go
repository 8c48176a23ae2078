package fastkmeans

import (
	"fmt"
	"testing"

	"github.com/hupe1980/fastkmeans/testutil"
)

func BenchmarkVariants(b *testing.B) {
	rng := testutil.NewRNG(42)
	ds, err := NewDatasetFromRows(rng.ClusteredRows(20000, 8, 50, 0.5))
	if err != nil {
		b.Fatalf("dataset: %v", err)
	}

	for _, k := range []int{10, 100} {
		centers, err := KMeansPlusPlus(ds, k, 1)
		if err != nil {
			b.Fatalf("kmeans++: %v", err)
		}
		init, err := NewAssignment(ds.N())
		if err != nil {
			b.Fatalf("assignment: %v", err)
		}
		if err := Assign(ds, centers, init); err != nil {
			b.Fatalf("assign: %v", err)
		}

		for _, name := range []string{"naive", "compare", "sort", "heap", "annulus", "hamerly", "elkan", "drake", "adaptive"} {
			b.Run(fmt.Sprintf("k=%d/%s", k, name), func(b *testing.B) {
				var distances int64
				for b.Loop() {
					alg, err := New(name, max(1, k/8), WithWorkers(4))
					if err != nil {
						b.Fatalf("new: %v", err)
					}
					if err := alg.Initialize(ds, k, init); err != nil {
						b.Fatalf("initialize: %v", err)
					}
					if _, err := alg.Run(1000); err != nil {
						b.Fatalf("run: %v", err)
					}
					distances = alg.Stats().DistanceEvaluations
				}
				b.ReportMetric(float64(distances), "distances/op")
			})
		}
	}
}
