package fastkmeans

type options struct {
	workers          int
	logger           *Logger
	metricsCollector MetricsCollector
	sseHistory       bool
}

func defaultOptions() options {
	return options{
		workers:          1,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures an algorithm variant at construction time.
type Option func(*options)

// WithWorkers sets the number of goroutines used for the assign pass and the
// per-point bound updates.
//
// Points are split into contiguous ranges, one per worker; every range owns its
// slice of the assignment and bounds, so no per-point state is shared. Center
// sums are accumulated per worker and merged in worker order, which keeps
// results deterministic for a fixed worker count.
//
// If n <= 1, the run is single-threaded (default).
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger configures structured logging.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fastkmeans.BasicMetricsCollector{}
//	alg := fastkmeans.NewHamerly(fastkmeans.WithMetricsCollector(metrics))
//	// ... run ...
//	fmt.Println(metrics.DistanceCount.Load())
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metricsCollector = c
	}
}

// WithSSEHistory records the k-means objective after every iteration in
// Stats.History. It costs one extra pass over the data per iteration; the
// distances it evaluates are not counted.
func WithSSEHistory() Option {
	return func(o *options) {
		o.sseHistory = true
	}
}
