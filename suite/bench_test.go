package suite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

var (
	deviceOnce sync.Once
	device     *gpu.Context
	deviceErr  error
)

// testDevice returns a device shared by all benchmarks in the package,
// skipping when no adapter is available.
func testDevice(tb testing.TB) *gpu.Context {
	tb.Helper()

	deviceOnce.Do(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		device, deviceErr = gpu.Open(context.Background(), logger, gpu.Options{})
	})
	if deviceErr != nil {
		tb.Skipf("no GPU adapter available: %v", deviceErr)
	}

	return device
}

func TestMain(m *testing.M) {
	code := m.Run()
	if device != nil {
		device.Release()
	}
	os.Exit(code)
}

// BenchmarkSuite runs the enabled benchmarks under go test -bench.
// Disabled ones run when GPUBENCH_ALL is set.
func BenchmarkSuite(b *testing.B) {
	groups, err := Select(Filter{IncludeDisabled: os.Getenv("GPUBENCH_ALL") != ""})
	if err != nil {
		b.Fatal(err)
	}

	for _, g := range groups {
		b.Run(g.Name, func(b *testing.B) {
			for _, bm := range g.Benchmarks {
				b.Run(bm.Name, func(b *testing.B) {
					harness.RunTesting(b, bm.Func(testDevice(b)))
				})
			}
		})
	}
}

// TestSuiteSmoke runs every benchmark body, disabled ones included,
// with a minimal config.
func TestSuiteSmoke(t *testing.T) {
	gc := testDevice(t)

	runner := harness.NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := harness.Config{
		WarmUp:      time.Millisecond,
		Measurement: 5 * time.Millisecond,
		SampleSize:  2,
	}

	for _, g := range Groups() {
		for _, bm := range g.Benchmarks {
			t.Run(g.Name+"/"+bm.Name, func(t *testing.T) {
				result, err := runner.Run(context.Background(), g.Name, bm.Name, cfg, bm.Func(gc))
				if err != nil {
					t.Fatalf("run failed: %v", err)
				}
				if result.Iterations == 0 {
					t.Error("expected at least one iteration")
				}
				if len(result.Samples) != cfg.SampleSize {
					t.Errorf("samples = %d, want %d", len(result.Samples), cfg.SampleSize)
				}
			})
		}
	}
}
