package fastkmeans

// IterationStats describes one Lloyd iteration.
type IterationStats struct {
	Iteration int
	// Changed is the number of points that switched centers.
	Changed int
	// DistanceEvaluations counts point-center distance computations.
	DistanceEvaluations int64
	// FullScans counts points whose bounds failed and that were compared
	// against every center.
	FullScans int64
	// MaxMovement is the largest distance any center moved in the update.
	MaxMovement float64
	// MovedCenters is the number of centers with non-zero movement.
	MovedCenters int
	// SSE is the objective after the update; only set with WithSSEHistory.
	SSE float64
}

// Stats summarizes an algorithm run.
type Stats struct {
	Iterations          int
	Converged           bool
	DistanceEvaluations int64
	FullScans           int64
	AssignmentChanges   int64
	History             []IterationStats
}

// workerStats holds the counters of one worker. Each worker owns its slot,
// padded to keep neighbouring workers off the same cache line.
type workerStats struct {
	distances int64
	fullScans int64
	changed   int
	_         [40]byte
}
