package fastkmeans

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with fastkmeans-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// This is the default for algorithms constructed without WithLogger.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithAlgorithm adds an algorithm field to the logger.
func (l *Logger) WithAlgorithm(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("algorithm", name),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogInitialize logs the outcome of Algorithm.Initialize.
func (l *Logger) LogInitialize(ctx context.Context, n, k, workers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "initialize failed",
			"n", n,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "initialized",
		"n", n,
		"k", k,
		"workers", workers,
	)
}

// LogIteration logs a single Lloyd iteration.
func (l *Logger) LogIteration(ctx context.Context, it IterationStats) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", it.Iteration,
		"changed", it.Changed,
		"distances", it.DistanceEvaluations,
		"max_movement", it.MaxMovement,
		"moved_centers", it.MovedCenters,
	)
}

// LogRun logs the end of a Run call.
func (l *Logger) LogRun(ctx context.Context, st Stats, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"iterations", st.Iterations,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"iterations", st.Iterations,
		"converged", st.Converged,
		"distances", st.DistanceEvaluations,
		"assignment_changes", st.AssignmentChanges,
		"elapsed", elapsed,
	)
}

// iterationThrottle logs the first iteration of a run and then at most one
// iteration per second.
func iterationThrottle() *rate.Sometimes {
	return &rate.Sometimes{First: 1, Interval: time.Second}
}
