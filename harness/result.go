// Package harness times benchmark bodies and summarizes the samples.
package harness

import "time"

// Sample is one timed batch of iterations.
type Sample struct {
	Iterations uint64 `json:"iterations"`
	ElapsedNs  int64  `json:"elapsed_ns"`
}

// PerIter returns the mean time of one iteration in the sample.
func (s Sample) PerIter() float64 {
	if s.Iterations == 0 {
		return 0
	}

	return float64(s.ElapsedNs) / float64(s.Iterations)
}

// Stats summarizes the per-iteration times of all samples,
// in nanoseconds.
type Stats struct {
	MeanNs   float64 `json:"mean_ns"`
	MedianNs float64 `json:"median_ns"`
	StdDevNs float64 `json:"std_dev_ns"`
	MinNs    float64 `json:"min_ns"`
	MaxNs    float64 `json:"max_ns"`
	SlopeNs  float64 `json:"slope_ns"`
}

// Result holds the structured output of one benchmark.
type Result struct {
	Group        string        `json:"group"`
	Name         string        `json:"name"`
	Config       Config        `json:"config"`
	Samples      []Sample      `json:"samples"`
	Iterations   uint64        `json:"iterations"`
	BytesPerIter int64         `json:"bytes_per_iter,omitempty"`
	WallTime     time.Duration `json:"wall_time_ns"`
	Stats        Stats         `json:"stats"`
}

// FullName returns "group/name".
func (r Result) FullName() string {
	return r.Group + "/" + r.Name
}

// Throughput returns bytes per second derived from the mean
// iteration time, or 0 when the benchmark did not report bytes.
func (r Result) Throughput() float64 {
	if r.BytesPerIter <= 0 || r.Stats.MeanNs <= 0 {
		return 0
	}

	return float64(r.BytesPerIter) / (r.Stats.MeanNs / float64(time.Second))
}
