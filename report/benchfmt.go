package report

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
	"golang.org/x/perf/benchfmt"
)

// GenerateBenchfmt writes results in the Go benchmark format, one line
// per sample, so they can be compared with benchstat.
func GenerateBenchfmt(w io.Writer, info gpu.AdapterInfo, results []harness.Result) error {
	if len(results) == 0 {
		return errNoResults
	}

	config := []benchfmt.Config{
		{Key: "adapter", Value: []byte(orDash(info.Name)), File: true},
		{Key: "backend", Value: []byte(orDash(info.Backend)), File: true},
		{Key: "pkg", Value: []byte("github.com/weiihann/gpubench/suite"), File: true},
	}

	bw := benchfmt.NewWriter(w)

	for _, r := range results {
		name := benchName(r.Group, r.Name)

		for _, s := range r.Samples {
			res := &benchfmt.Result{
				Config: config,
				Name:   benchfmt.Name(name),
				Iters:  int(s.Iterations),
				Values: []benchfmt.Value{{Value: s.PerIter(), Unit: "ns/op"}},
			}
			if r.BytesPerIter > 0 && s.ElapsedNs > 0 {
				bps := float64(r.BytesPerIter) * float64(s.Iterations) /
					(float64(s.ElapsedNs) / 1e9)
				res.Values = append(res.Values, benchfmt.Value{Value: bps, Unit: "B/s"})
			}

			if err := bw.Write(res); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
	}

	return nil
}

// benchName builds a benchmark name without whitespace, e.g.
// "BenchmarkOverhead/Queue::submit(empty)".
func benchName(group, name string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)

	title := group
	if group != "" {
		title = strings.ToUpper(group[:1]) + group[1:]
	}

	return "Benchmark" + title + "/" + clean
}
