// Package driver interprets benchmark sessions: a line-oriented command
// script or a YAML plan that loads datasets, seeds initial assignments and
// times every requested variant on them.
//
// Script commands, one per line ('#' starts a comment):
//
//	dataset|data <name>                          load a dataset from the source
//	center                                       translate the dataset to zero mean
//	seed <n>                                     seed for the next initialize
//	initialize|init <k> <kpp|kmeansplusplus|random>
//	threads <n>                                  workers per run
//	maxiterations <n>                            iteration cap, negative for none
//	repeats <n>                                  runs per algorithm command
//	naive|lloyd|compare|sort|heap|hamerly|hamerlyneighbors|annulus|norm|elkan|elkanneighbors|adaptive
//	drake <b>
//	dump_centers | dump_assignment               print state of the last run
//	quit|exit
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/fastkmeans"
	"github.com/hupe1980/fastkmeans/report"
)

// ErrQuit is returned by Exec for quit and exit.
var ErrQuit = errors.New("driver: quit")

// Config wires a Session to its environment.
type Config struct {
	// Source resolves dataset names.
	Source fastkmeans.DatasetSource
	// Out receives dump output. Defaults to io.Discard.
	Out io.Writer
	// Logger receives progress records. Defaults to a no-op logger.
	Logger *fastkmeans.Logger
	// Metrics is passed to every algorithm run.
	Metrics fastkmeans.MetricsCollector
}

// Session is the state of one benchmark session. It is not safe for
// concurrent use.
type Session struct {
	cfg Config

	ds     *fastkmeans.Dataset
	dsName string

	k          int
	init       *fastkmeans.Assignment
	initMethod string

	seed          int64
	threads       int
	maxIterations int
	repeats       int

	last    fastkmeans.Algorithm
	results []report.EvalResult
}

// New returns a Session with one thread, no iteration cap and one repeat.
func New(cfg Config) *Session {
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = fastkmeans.NoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = fastkmeans.NoopMetricsCollector{}
	}
	return &Session{
		cfg:           cfg,
		threads:       1,
		maxIterations: math.MaxInt,
		repeats:       1,
	}
}

// Results returns the measurements collected so far, in run order.
func (s *Session) Results() []report.EvalResult {
	return append([]report.EvalResult(nil), s.results...)
}

// Mismatches compares every run against the first run on the same input.
func (s *Session) Mismatches() []report.Mismatch {
	return report.Verify(s.results)
}

// Exec runs a single command.
func (s *Session) Exec(ctx context.Context, cmd string, args ...string) error {
	switch cmd = strings.ToLower(cmd); cmd {
	case "dataset", "data":
		if err := wantArgs(cmd, args, 1); err != nil {
			return err
		}
		return s.loadDataset(ctx, args[0])
	case "center":
		if err := wantArgs(cmd, args, 0); err != nil {
			return err
		}
		return s.center()
	case "seed":
		v, err := intArg(cmd, args)
		if err != nil {
			return err
		}
		s.seed = int64(v)
		return nil
	case "initialize", "init":
		if err := wantArgs(cmd, args, 2); err != nil {
			return err
		}
		k, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s: bad k %q", fastkmeans.ErrInvalidArgument, cmd, args[0])
		}
		return s.initialize(k, args[1])
	case "threads":
		v, err := intArg(cmd, args)
		if err != nil {
			return err
		}
		if v < 1 {
			return fmt.Errorf("%w: threads must be at least 1, got %d", fastkmeans.ErrInvalidArgument, v)
		}
		s.threads = v
		return nil
	case "maxiterations":
		v, err := intArg(cmd, args)
		if err != nil {
			return err
		}
		if v < 0 {
			v = math.MaxInt
		}
		if v == 0 {
			return fmt.Errorf("%w: maxiterations must not be 0", fastkmeans.ErrInvalidArgument)
		}
		s.maxIterations = v
		return nil
	case "repeats":
		v, err := intArg(cmd, args)
		if err != nil {
			return err
		}
		if v < 1 {
			return fmt.Errorf("%w: repeats must be at least 1, got %d", fastkmeans.ErrInvalidArgument, v)
		}
		s.repeats = v
		return nil
	case "drake":
		b, err := intArg(cmd, args)
		if err != nil {
			return err
		}
		return s.run(ctx, cmd, b)
	case "dump_centers":
		if s.last == nil {
			return fmt.Errorf("%w: no algorithm has run", fastkmeans.ErrInconsistentState)
		}
		return s.last.Centers().Print(s.cfg.Out)
	case "dump_assignment":
		if s.last == nil {
			return fmt.Errorf("%w: no algorithm has run", fastkmeans.ErrInconsistentState)
		}
		return writeLabels(s.cfg.Out, s.last.Assignment().Labels())
	case "quit", "exit":
		return ErrQuit
	}

	if _, err := fastkmeans.New(cmd, 0); err != nil {
		return fmt.Errorf("%w: unknown command %q", fastkmeans.ErrInvalidArgument, cmd)
	}
	if err := wantArgs(cmd, args, 0); err != nil {
		return err
	}
	return s.run(ctx, cmd, 0)
}

// RunScript executes r line by line. A failing command is logged and the
// script continues, like the interactive driver; the failures are returned
// joined once the script ends. Cancellation stops the script.
func (s *Session) RunScript(ctx context.Context, r io.Reader) error {
	var errs []error
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		err := s.Exec(ctx, fields[0], fields[1:]...)
		if errors.Is(err, ErrQuit) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.cfg.Logger.WarnContext(ctx, "command failed", "line", line, "command", fields[0], "error", err)
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) loadDataset(ctx context.Context, name string) error {
	if s.cfg.Source == nil {
		return fmt.Errorf("%w: no dataset source configured", fastkmeans.ErrInconsistentState)
	}
	ds, err := fastkmeans.LoadDataset(ctx, s.cfg.Source, name)
	if err != nil {
		return err
	}
	s.ds, s.dsName = ds, name
	s.init, s.k, s.initMethod = nil, 0, ""
	s.cfg.Logger.InfoContext(ctx, "dataset loaded", "name", name, "n", ds.N(), "d", ds.D())
	return nil
}

func (s *Session) center() error {
	if s.ds == nil {
		return fmt.Errorf("%w: center before dataset", fastkmeans.ErrInconsistentState)
	}
	s.ds = fastkmeans.CenterDataset(s.ds)
	s.dsName += "+center"
	s.init, s.k, s.initMethod = nil, 0, ""
	return nil
}

func (s *Session) initialize(k int, method string) error {
	if s.ds == nil {
		return fmt.Errorf("%w: initialize before dataset", fastkmeans.ErrInconsistentState)
	}

	var (
		centers *fastkmeans.Centers
		err     error
	)
	switch method = strings.ToLower(method); method {
	case "kpp", "kmeansplusplus":
		method = "kpp"
		centers, err = fastkmeans.KMeansPlusPlus(s.ds, k, s.seed)
	case "random":
		centers, err = fastkmeans.RandomCenters(s.ds, k, s.seed)
	default:
		return fmt.Errorf("%w: unknown init method %q", fastkmeans.ErrInvalidArgument, method)
	}
	if err != nil {
		return err
	}

	a, err := fastkmeans.NewAssignment(s.ds.N())
	if err != nil {
		return err
	}
	if err := fastkmeans.Assign(s.ds, centers, a); err != nil {
		return err
	}
	s.k, s.init, s.initMethod = k, a, method
	return nil
}

// run times the named variant repeats times from the current initial
// assignment.
func (s *Session) run(ctx context.Context, name string, b int) error {
	if s.init == nil {
		return fmt.Errorf("%w: %s before initialize", fastkmeans.ErrInconsistentState, name)
	}

	for rep := 0; rep < s.repeats; rep++ {
		alg, err := fastkmeans.New(name, b,
			fastkmeans.WithWorkers(s.threads),
			fastkmeans.WithLogger(s.cfg.Logger),
			fastkmeans.WithMetricsCollector(s.cfg.Metrics),
		)
		if err != nil {
			return err
		}

		trial := report.Trial{Dataset: s.dsName, K: s.k, Init: s.initMethod, Seed: s.seed, Repeat: rep}
		res, err := report.Evaluate(ctx, alg, s.ds, s.k, s.init, s.maxIterations, trial)
		if err != nil {
			return err
		}
		res.Threads = s.threads
		s.results = append(s.results, res)
		s.last = alg

		s.cfg.Logger.InfoContext(ctx, "run measured",
			"algorithm", res.Algorithm,
			"trial", trial.String(),
			"iterations", res.Iterations,
			"wall", res.WallTime,
			"distances", res.DistanceEvaluations,
		)
	}
	return nil
}

func wantArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", fastkmeans.ErrInvalidArgument, cmd, n, len(args))
	}
	return nil
}

func intArg(cmd string, args []string) (int, error) {
	if err := wantArgs(cmd, args, 1); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad integer %q", fastkmeans.ErrInvalidArgument, cmd, args[0])
	}
	return v, nil
}

func writeLabels(w io.Writer, labels []int) error {
	bw := bufio.NewWriter(w)
	for i, c := range labels {
		if i > 0 {
			_ = bw.WriteByte(' ')
		}
		_, _ = bw.WriteString(strconv.Itoa(c))
	}
	_ = bw.WriteByte('\n')
	return bw.Flush()
}
