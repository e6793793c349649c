// Package suite holds the catalogue of WebGPU overhead benchmarks.
//
// Every benchmark body follows the same shape: setup against the shared
// device, one call to Bencher.Iter around the measured library calls,
// then teardown. Resources created inside an iteration are released
// inside it so the allocator sees the same create/free pattern on every
// iteration.
package suite

import (
	"fmt"
	"slices"
	"strings"

	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

// Body is a benchmark body run against an acquired device.
type Body func(gc *gpu.Context, b harness.Bencher) error

// Benchmark is one named measurement.
type Benchmark struct {
	Group string
	Name  string
	// Disabled, when non-empty, is the reason the benchmark only
	// runs on explicit request.
	Disabled string
	Body     Body
}

// Func binds the body to gc so the harness can run it.
func (bm Benchmark) Func(gc *gpu.Context) harness.Func {
	return func(b harness.Bencher) error {
		return bm.Body(gc, b)
	}
}

// Group is a set of benchmarks measured under one harness config.
type Group struct {
	Name       string
	Config     harness.Config
	Benchmarks []Benchmark
}

// Groups returns every benchmark group in run order.
func Groups() []Group {
	return []Group{
		allocationGroup(),
		overheadGroup(),
		hardwareGroup(),
	}
}

// GroupNames returns the names of all groups.
func GroupNames() []string {
	groups := Groups()
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}

	return names
}

// Lookup returns the named benchmark.
func Lookup(group, name string) (Benchmark, error) {
	for _, g := range Groups() {
		if g.Name != group {
			continue
		}
		for _, bm := range g.Benchmarks {
			if bm.Name == name {
				return bm, nil
			}
		}

		return Benchmark{}, fmt.Errorf("unknown benchmark %q in group %q", name, group)
	}

	return Benchmark{}, fmt.Errorf("unknown group %q", group)
}

// Filter narrows the catalogue.
type Filter struct {
	// Groups restricts to the named groups; empty means all.
	Groups []string
	// Match keeps benchmarks whose name contains it, case-insensitively.
	Match string
	// IncludeDisabled also keeps disabled benchmarks.
	IncludeDisabled bool
}

// Select returns the groups and benchmarks that pass f. Groups left
// without benchmarks are dropped.
func Select(f Filter) ([]Group, error) {
	known := GroupNames()
	for _, name := range f.Groups {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown group %q (known: %s)",
				name, strings.Join(known, ", "))
		}
	}

	match := strings.ToLower(f.Match)

	var selected []Group

	for _, g := range Groups() {
		if len(f.Groups) > 0 && !slices.Contains(f.Groups, g.Name) {
			continue
		}

		var keep []Benchmark
		for _, bm := range g.Benchmarks {
			if bm.Disabled != "" && !f.IncludeDisabled {
				continue
			}
			if match != "" && !strings.Contains(strings.ToLower(bm.Name), match) {
				continue
			}
			keep = append(keep, bm)
		}

		if len(keep) > 0 {
			g.Benchmarks = keep
			selected = append(selected, g)
		}
	}

	return selected, nil
}
