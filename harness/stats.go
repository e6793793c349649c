package harness

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes per-iteration statistics over samples. The slope
// is the least-squares fit of elapsed time against iteration count,
// constrained through the origin, which discounts fixed per-sample
// overhead.
func Summarize(samples []Sample) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	perIter := make([]float64, len(samples))
	iters := make([]float64, len(samples))
	elapsed := make([]float64, len(samples))

	for i, s := range samples {
		perIter[i] = s.PerIter()
		iters[i] = float64(s.Iterations)
		elapsed[i] = float64(s.ElapsedNs)
	}

	sorted := slices.Clone(perIter)
	slices.Sort(sorted)

	st := Stats{
		MeanNs:   stat.Mean(perIter, nil),
		MedianNs: median(sorted),
		MinNs:    floats.Min(perIter),
		MaxNs:    floats.Max(perIter),
	}

	if len(samples) > 1 {
		st.StdDevNs = stat.StdDev(perIter, nil)
		_, st.SlopeNs = stat.LinearRegression(iters, elapsed, nil, true)
	} else {
		st.SlopeNs = perIter[0]
	}

	return st
}

// median of sorted values; the mean of the two middle values for even n.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}
