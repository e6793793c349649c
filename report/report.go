// Package report formats benchmark results as markdown tables, JSON or
// the Go benchmark format.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

var errNoResults = errors.New("no results to report")

// Generate writes markdown tables, one per group, for the given results.
func Generate(w io.Writer, info gpu.AdapterInfo, results []harness.Result) error {
	if len(results) == 0 {
		return errNoResults
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Adapter: **%s** (%s, %s)\n", orDash(info.Name),
		orDash(info.Backend), orDash(info.AdapterType))
	if info.Driver != "" {
		fmt.Fprintf(w, "Driver: %s\n", info.Driver)
	}

	for _, group := range groupOrder(results) {
		rows := filterGroup(results, group)
		fastest := findFastest(rows)

		fmt.Fprintln(w)
		fmt.Fprintf(w, "### %s\n", group)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Benchmark | Mean | Median | Std Dev "+
			"| Min | Max | Throughput | Relative |")
		fmt.Fprintln(w, "|-----------|------|--------|---------"+
			"|-----|-----|------------|----------|")

		for _, r := range rows {
			relative := 1.0
			if fastest > 0 && r.Stats.MeanNs > 0 {
				relative = r.Stats.MeanNs / fastest
			}

			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %.2fx |\n",
				r.Name,
				formatNs(r.Stats.MeanNs),
				formatNs(r.Stats.MedianNs),
				formatNs(r.Stats.StdDevNs),
				formatNs(r.Stats.MinNs),
				formatNs(r.Stats.MaxNs),
				formatRate(r.Throughput()),
				relative,
			)
		}
	}

	return nil
}

// GenerateJSON writes the adapter info and results as JSON to w.
func GenerateJSON(w io.Writer, info gpu.AdapterInfo, results []harness.Result) error {
	if len(results) == 0 {
		return errNoResults
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(struct {
		Adapter gpu.AdapterInfo  `json:"adapter"`
		Results []harness.Result `json:"results"`
	}{info, results})
}

func groupOrder(results []harness.Result) []string {
	var groups []string
	seen := make(map[string]bool)

	for _, r := range results {
		if !seen[r.Group] {
			seen[r.Group] = true
			groups = append(groups, r.Group)
		}
	}

	return groups
}

func filterGroup(results []harness.Result, group string) []harness.Result {
	var rows []harness.Result
	for _, r := range results {
		if r.Group == group {
			rows = append(rows, r)
		}
	}

	return rows
}

func findFastest(results []harness.Result) float64 {
	fastest := math.Inf(1)
	for _, r := range results {
		if r.Stats.MeanNs > 0 && r.Stats.MeanNs < fastest {
			fastest = r.Stats.MeanNs
		}
	}

	if math.IsInf(fastest, 1) {
		return 0
	}

	return fastest
}

func formatNs(ns float64) string {
	switch {
	case ns <= 0:
		return "-"
	case ns < 1e3:
		return fmt.Sprintf("%.1fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.2fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/float64(time.Second))
	}
}

func formatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "-"
	}

	return formatBytes(uint64(bytesPerSec)) + "/s"
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
