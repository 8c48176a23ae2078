// Package testutil provides testing utilities for fastkmeans.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for point sets and initial assignments.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.UniformRows(1000, 8)            // uniform [0, 1)
//	rows = rng.ClusteredRows(1000, 8, 10, 0.05) // Gaussian blobs
//
// # Initial Assignments
//
//	labels := rng.Labels(1000, 10)
package testutil
