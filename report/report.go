package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/fastkmeans"
	"github.com/hupe1980/fastkmeans/codec"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Trial identifies the input a run was measured on. Runs of different
// algorithms on the same Trial must agree on iterations and SSE.
type Trial struct {
	Dataset string `json:"dataset"`
	K       int    `json:"k"`
	Init    string `json:"init"`
	Seed    int64  `json:"seed"`
	Repeat  int    `json:"repeat"`
}

func (t Trial) String() string {
	return fmt.Sprintf("%s k=%d %s seed=%d #%d", t.Dataset, t.K, t.Init, t.Seed, t.Repeat)
}

// EvalResult is the measurement of one algorithm run.
type EvalResult struct {
	Trial
	Algorithm           string        `json:"algorithm"`
	Threads             int           `json:"threads"`
	Iterations          int           `json:"iterations"`
	Converged           bool          `json:"converged"`
	CPUTime             time.Duration `json:"cpu_ns"`
	WallTime            time.Duration `json:"wall_ns"`
	MemoryMB            float64       `json:"memory_mb"`
	SSE                 float64       `json:"sse"`
	DistanceEvaluations int64         `json:"distances"`
	FullScans           int64         `json:"full_scans"`
	AssignmentChanges   int64         `json:"assignment_changes"`
}

// Evaluate initializes alg from init and runs it for at most maxIterations.
// Timing covers Initialize and Run, as the two together are the cost of
// clustering from a given start.
func Evaluate(ctx context.Context, alg fastkmeans.Algorithm, ds *fastkmeans.Dataset, k int, init *fastkmeans.Assignment, maxIterations int, trial Trial) (EvalResult, error) {
	res := EvalResult{Trial: trial, Algorithm: alg.Name()}

	cpu0, wall0 := userCPU(), time.Now()
	if err := alg.Initialize(ds, k, init); err != nil {
		return res, err
	}
	iters, err := alg.RunContext(ctx, maxIterations)
	res.WallTime = time.Since(wall0)
	res.CPUTime = userCPU() - cpu0
	res.MemoryMB = residentMB()
	if err != nil {
		return res, err
	}

	st := alg.Stats()
	res.Iterations = iters
	res.Converged = st.Converged
	res.DistanceEvaluations = st.DistanceEvaluations
	res.FullScans = st.FullScans
	res.AssignmentChanges = st.AssignmentChanges

	sse, err := fastkmeans.SSE(ds, alg.Centers(), alg.Assignment())
	if err != nil {
		return res, err
	}
	res.SSE = sse
	return res, nil
}

// Summary aggregates the repeated runs of one algorithm.
type Summary struct {
	Algorithm      string  `json:"algorithm"`
	Runs           int     `json:"runs"`
	MeanIterations float64 `json:"mean_iterations"`
	MeanCPU        float64 `json:"mean_cpu_secs"`
	StdCPU         float64 `json:"std_cpu_secs"`
	MeanWall       float64 `json:"mean_wall_secs"`
	StdWall        float64 `json:"std_wall_secs"`
	MinWall        float64 `json:"min_wall_secs"`
	MaxWall        float64 `json:"max_wall_secs"`
	MeanDistances  float64 `json:"mean_distances"`
	MeanSSE        float64 `json:"mean_sse"`
}

// Summarize groups results by algorithm, in order of first appearance.
func Summarize(results []EvalResult) []Summary {
	var order []string
	groups := make(map[string][]EvalResult)
	for _, r := range results {
		if _, ok := groups[r.Algorithm]; !ok {
			order = append(order, r.Algorithm)
		}
		groups[r.Algorithm] = append(groups[r.Algorithm], r)
	}

	out := make([]Summary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		iters := make([]float64, len(g))
		cpu := make([]float64, len(g))
		wall := make([]float64, len(g))
		dists := make([]float64, len(g))
		sse := make([]float64, len(g))
		for i, r := range g {
			iters[i] = float64(r.Iterations)
			cpu[i] = r.CPUTime.Seconds()
			wall[i] = r.WallTime.Seconds()
			dists[i] = float64(r.DistanceEvaluations)
			sse[i] = r.SSE
		}

		s := Summary{Algorithm: name, Runs: len(g)}
		s.MeanIterations = stat.Mean(iters, nil)
		s.MeanCPU, s.StdCPU = meanStd(cpu)
		s.MeanWall, s.StdWall = meanStd(wall)
		s.MinWall, s.MaxWall = floats.Min(wall), floats.Max(wall)
		s.MeanDistances = stat.Mean(dists, nil)
		s.MeanSSE = stat.Mean(sse, nil)
		out = append(out, s)
	}
	return out
}

// meanStd is stat.MeanStdDev with a zero deviation for a single sample.
func meanStd(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

// Mismatch records a run that disagrees with the first run on the same Trial.
type Mismatch struct {
	Trial     Trial
	Algorithm string
	Reference string
	Field     string
	Got       float64
	Want      float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("ERROR: %s: %s %s = %g, %s had %g", m.Trial, m.Algorithm, m.Field, m.Got, m.Reference, m.Want)
}

// sseTolerance is the relative SSE difference tolerated between variants.
const sseTolerance = 1e-9

// Verify compares every run against the first run on the same Trial. Exact
// variants must match on iteration count and SSE.
func Verify(results []EvalResult) []Mismatch {
	ref := make(map[Trial]EvalResult)
	var out []Mismatch
	for _, r := range results {
		want, ok := ref[r.Trial]
		if !ok {
			ref[r.Trial] = r
			continue
		}
		if r.Iterations != want.Iterations {
			out = append(out, Mismatch{
				Trial: r.Trial, Algorithm: r.Algorithm, Reference: want.Algorithm,
				Field: "iterations", Got: float64(r.Iterations), Want: float64(want.Iterations),
			})
		}
		if math.Abs(r.SSE-want.SSE) > sseTolerance*math.Max(1, math.Abs(want.SSE)) {
			out = append(out, Mismatch{
				Trial: r.Trial, Algorithm: r.Algorithm, Reference: want.Algorithm,
				Field: "sse", Got: r.SSE, Want: want.SSE,
			})
		}
	}
	return out
}

// WriteTable writes one row per result with the columns of the benchmark
// driver.
func WriteTable(w io.Writer, results []EvalResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "algorithm\titers\tthreads\tcpu_secs\twall_secs\tMB\tsse\t#distances\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.4f\t%.1f\t%.6g\t%d\t\n",
			r.Algorithm, r.Iterations, r.Threads, r.CPUTime.Seconds(), r.WallTime.Seconds(),
			r.MemoryMB, r.SSE, r.DistanceEvaluations)
	}
	return tw.Flush()
}

// WriteSummaryTable writes one row per summary.
func WriteSummaryTable(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "algorithm\truns\titers\tcpu_mean\tcpu_std\twall_mean\twall_std\twall_min\twall_max\t#distances\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.0f\t\n",
			s.Algorithm, s.Runs, s.MeanIterations, s.MeanCPU, s.StdCPU,
			s.MeanWall, s.StdWall, s.MinWall, s.MaxWall, s.MeanDistances)
	}
	return tw.Flush()
}

// Document is the JSON form of a benchmark session.
type Document struct {
	Results    []EvalResult `json:"results"`
	Summaries  []Summary    `json:"summaries"`
	Mismatches []string     `json:"mismatches,omitempty"`
}

// WriteJSON writes results, their summaries and any mismatches as JSON.
func WriteJSON(w io.Writer, results []EvalResult) error {
	doc := Document{Results: results, Summaries: Summarize(results)}
	for _, m := range Verify(results) {
		doc.Mismatches = append(doc.Mismatches, m.String())
	}
	data, err := codec.Default.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
