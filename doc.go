// Package fastkmeans provides exact, accelerated Lloyd k-means for Go.
//
// Every variant converges to exactly the same assignment and centers as the
// plain Lloyd iteration from the same start. They differ only in how many
// point-center distances they evaluate, using the triangle inequality to
// prove that a point cannot have changed center.
//
// # Quick Start
//
//	ds, _ := fastkmeans.NewDatasetFromRows(rows)
//	centers, _ := fastkmeans.KMeansPlusPlus(ds, 10, 42)
//	init, _ := fastkmeans.NewAssignment(ds.N())
//	_ = fastkmeans.Assign(ds, centers, init)
//
//	alg := fastkmeans.NewHamerly(fastkmeans.WithWorkers(4))
//	_ = alg.Initialize(ds, 10, init)
//	iters, _ := alg.Run(1000)
//	fmt.Println(iters, alg.Centers())
//
// The initial assignment is copied, so one Assignment can seed every variant.
//
// # Variants
//
//	naive             full scan of every center for every point
//	compare           skips centers using half the inter-center distances
//	sort              scans per-center candidate lists sorted by inter-center distance
//	heap              per-center heaps of points keyed by their bound gap
//	annulus           Hamerly plus a norm annulus around a fixed reference point
//	hamerly           one upper and one lower bound per point
//	hamerlyneighbors  hamerly scanning only the neighbors of the assigned center
//	elkan             one upper and k lower bounds per point
//	elkanneighbors    elkan visiting only the neighbors of the assigned center
//	drake             one upper and b sorted lower bounds per point
//	adaptive          drake with b chosen from k and shrunk as the run settles
//
// Use New to construct a variant by name and Names to list them.
//
// # Parallelism
//
// WithWorkers splits the points into contiguous ranges. Each worker owns the
// assignment and bounds of its range and accumulates private center sums,
// merged in worker order, so results do not depend on scheduling.
//
// # Observability
//
// WithLogger attaches a structured slog-based Logger and WithMetricsCollector
// a MetricsCollector; package metric provides a Prometheus implementation.
// Stats reports distance evaluations, full scans and assignment changes.
package fastkmeans
