package harness

import "testing"

// testingBencher drives a benchmark body from go test -bench.
type testingBencher struct {
	b      *testing.B
	called bool
}

func (t *testingBencher) SetBytes(n int64) { t.b.SetBytes(n) }

func (t *testingBencher) Iter(routine func() error) error {
	if t.called {
		return errIterTwice
	}
	t.called = true

	t.b.ResetTimer()
	for i := 0; i < t.b.N; i++ {
		if err := routine(); err != nil {
			return err
		}
	}
	t.b.StopTimer()

	return nil
}

// RunTesting runs fn as a standard Go benchmark. Setup failures
// abort the benchmark.
func RunTesting(b *testing.B, fn Func) {
	b.Helper()

	tb := &testingBencher{b: b}
	if err := fn(tb); err != nil {
		b.Fatal(err)
	}
	if !tb.called {
		b.Fatal(errIterMissing)
	}
}
