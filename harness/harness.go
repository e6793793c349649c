package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Bencher is handed to a benchmark body. Code before Iter is setup,
// code after it is teardown; only the routine passed to Iter is timed.
type Bencher interface {
	// Iter runs routine repeatedly under the timer. It must be
	// called exactly once per benchmark body.
	Iter(routine func() error) error
	// SetBytes records the number of bytes processed per iteration.
	SetBytes(n int64)
}

// Func is a benchmark body.
type Func func(b Bencher) error

var (
	errIterTwice   = errors.New("Iter called more than once")
	errIterMissing = errors.New("benchmark returned without calling Iter")
)

// Runner executes benchmark bodies one at a time.
type Runner struct {
	Logger *slog.Logger
}

// NewRunner creates a Runner that logs through logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Logger: logger}
}

// Run executes fn under cfg and returns its summarized samples.
func (r *Runner) Run(
	ctx context.Context,
	group, name string,
	cfg Config,
	fn Func,
) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", group, name, err)
	}

	logger := r.Logger.With(
		slog.String("group", group),
		slog.String("bench", name),
	)
	logger.InfoContext(ctx, "starting benchmark",
		slog.Duration("warm_up", cfg.WarmUp),
		slog.Duration("measurement", cfg.Measurement),
		slog.Int("samples", cfg.SampleSize),
	)

	s := &sampler{ctx: ctx, cfg: cfg}
	wallStart := time.Now()

	if err := fn(s); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", group, name, err)
	}
	if !s.called {
		return nil, fmt.Errorf("%s/%s: %w", group, name, errIterMissing)
	}

	result := &Result{
		Group:        group,
		Name:         name,
		Config:       cfg,
		Samples:      s.samples,
		BytesPerIter: s.bytes,
		WallTime:     time.Since(wallStart),
		Stats:        Summarize(s.samples),
	}
	for _, smp := range s.samples {
		result.Iterations += smp.Iterations
	}

	logger.InfoContext(ctx, "benchmark finished",
		slog.Duration("wall_time", result.WallTime),
		slog.Uint64("iterations", result.Iterations),
		slog.Duration("mean", time.Duration(result.Stats.MeanNs)),
	)

	return result, nil
}

// sampler is the Bencher used by Runner. It warms up with a doubling
// iteration count, then takes SampleSize samples whose iteration
// counts grow linearly.
type sampler struct {
	ctx     context.Context
	cfg     Config
	called  bool
	bytes   int64
	samples []Sample
}

func (s *sampler) SetBytes(n int64) { s.bytes = n }

func (s *sampler) Iter(routine func() error) error {
	if s.called {
		return errIterTwice
	}
	s.called = true

	perIter, err := s.warmUp(routine)
	if err != nil {
		return fmt.Errorf("warm-up: %w", err)
	}

	plan := linearPlan(perIter, s.cfg)
	s.samples = make([]Sample, 0, len(plan))

	for _, n := range plan {
		if err := s.ctx.Err(); err != nil {
			return err
		}

		elapsed, err := timeLoop(routine, n)
		if err != nil {
			return err
		}

		s.samples = append(s.samples, Sample{
			Iterations: n,
			ElapsedNs:  elapsed.Nanoseconds(),
		})
	}

	return nil
}

// warmUp runs routine until the warm-up time has elapsed and returns
// the estimated nanoseconds per iteration.
func (s *sampler) warmUp(routine func() error) (float64, error) {
	var (
		total time.Duration
		iters uint64
	)

	for n := uint64(1); total < s.cfg.WarmUp; n *= 2 {
		if err := s.ctx.Err(); err != nil {
			return 0, err
		}

		elapsed, err := timeLoop(routine, n)
		if err != nil {
			return 0, err
		}

		total += elapsed
		iters += n
	}

	return float64(total.Nanoseconds()) / float64(iters), nil
}

// linearPlan returns the iteration count of each sample: sample i
// (1-based) runs i*d iterations, with d chosen so that the whole plan
// takes about the measurement time.
func linearPlan(perIterNs float64, cfg Config) []uint64 {
	if perIterNs <= 0 {
		perIterNs = 1
	}

	n := uint64(cfg.SampleSize)
	totalRuns := float64(n * (n + 1) / 2)
	d := uint64(math.Ceil(float64(cfg.Measurement.Nanoseconds()) / perIterNs / totalRuns))
	d = max(d, 1)

	plan := make([]uint64, n)
	for i := range plan {
		plan[i] = uint64(i+1) * d
	}

	return plan
}

func timeLoop(routine func() error, n uint64) (time.Duration, error) {
	start := time.Now()

	for i := uint64(0); i < n; i++ {
		if err := routine(); err != nil {
			return 0, err
		}
	}

	return time.Since(start), nil
}
