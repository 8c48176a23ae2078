// Package report measures algorithm runs and summarizes them.
//
// Evaluate initializes and runs one algorithm and captures what the
// benchmark tables show: iterations, CPU and wall time, resident memory, SSE
// and distance counts. Summarize folds repeated runs into per-algorithm
// statistics and Verify flags exact variants that disagree with each other.
package report
