package harness

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testRunner() *Runner {
	return NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func quickConfig() Config {
	return Config{
		WarmUp:      5 * time.Millisecond,
		Measurement: 20 * time.Millisecond,
		SampleSize:  5,
	}
}

func TestRunLinearSamples(t *testing.T) {
	var counter int

	result, err := testRunner().Run(context.Background(), "unit", "count",
		quickConfig(),
		func(b Bencher) error {
			b.SetBytes(64)

			return b.Iter(func() error {
				counter++
				return nil
			})
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Samples) != 5 {
		t.Fatalf("samples = %d, want 5", len(result.Samples))
	}

	d := result.Samples[0].Iterations
	var total uint64
	for i, s := range result.Samples {
		if s.Iterations != uint64(i+1)*d {
			t.Errorf("sample %d iterations = %d, want %d",
				i, s.Iterations, uint64(i+1)*d)
		}
		total += s.Iterations
	}

	if result.Iterations != total {
		t.Errorf("iterations = %d, want %d", result.Iterations, total)
	}
	if counter < int(total) {
		t.Errorf("routine ran %d times, want at least %d", counter, total)
	}
	if result.BytesPerIter != 64 {
		t.Errorf("bytes_per_iter = %d, want 64", result.BytesPerIter)
	}
	if result.FullName() != "unit/count" {
		t.Errorf("full name = %q, want unit/count", result.FullName())
	}
}

func TestRunWithoutIter(t *testing.T) {
	_, err := testRunner().Run(context.Background(), "unit", "noop",
		quickConfig(),
		func(Bencher) error { return nil })
	if !errors.Is(err, errIterMissing) {
		t.Errorf("err = %v, want errIterMissing", err)
	}
}

func TestRunIterTwice(t *testing.T) {
	_, err := testRunner().Run(context.Background(), "unit", "twice",
		quickConfig(),
		func(b Bencher) error {
			if err := b.Iter(func() error { return nil }); err != nil {
				return err
			}

			return b.Iter(func() error { return nil })
		})
	if !errors.Is(err, errIterTwice) {
		t.Errorf("err = %v, want errIterTwice", err)
	}
}

func TestRunRoutineError(t *testing.T) {
	boom := errors.New("boom")

	_, err := testRunner().Run(context.Background(), "unit", "fail",
		quickConfig(),
		func(b Bencher) error {
			return b.Iter(func() error { return boom })
		})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testRunner().Run(ctx, "unit", "cancelled",
		quickConfig(),
		func(b Bencher) error {
			return b.Iter(func() error { return nil })
		})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	_, err := testRunner().Run(context.Background(), "unit", "invalid",
		Config{SampleSize: 1},
		func(b Bencher) error {
			t.Error("body must not run with an invalid config")
			return nil
		})
	if err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestLinearPlan(t *testing.T) {
	plan := linearPlan(1000, Config{
		Measurement: time.Millisecond,
		SampleSize:  10,
	})

	if len(plan) != 10 {
		t.Fatalf("plan length = %d, want 10", len(plan))
	}
	// 1ms / 1000ns = 1000 iterations over 55 runs, rounded up.
	if plan[0] != 19 {
		t.Errorf("plan[0] = %d, want 19", plan[0])
	}
	if plan[9] != 190 {
		t.Errorf("plan[9] = %d, want 190", plan[9])
	}
}

func TestLinearPlanSlowRoutine(t *testing.T) {
	plan := linearPlan(float64(time.Second), Config{
		Measurement: time.Millisecond,
		SampleSize:  3,
	})

	for i, n := range plan {
		if n != uint64(i+1) {
			t.Errorf("plan[%d] = %d, want %d", i, n, i+1)
		}
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
