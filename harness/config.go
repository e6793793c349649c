package harness

import (
	"errors"
	"fmt"
	"time"
)

// Config controls how long a benchmark warms up and is measured.
type Config struct {
	WarmUp      time.Duration `json:"warm_up"`
	Measurement time.Duration `json:"measurement"`
	SampleSize  int           `json:"sample_size"`
}

// DefaultConfig returns 3s of warm-up, 5s of measurement and
// 100 samples.
func DefaultConfig() Config {
	return Config{
		WarmUp:      3 * time.Second,
		Measurement: 5 * time.Second,
		SampleSize:  100,
	}
}

// Validate reports whether the config can drive a measurement.
func (c Config) Validate() error {
	var errs []error

	if c.WarmUp <= 0 {
		errs = append(errs, fmt.Errorf("warm-up must be positive, got %s", c.WarmUp))
	}
	if c.Measurement <= 0 {
		errs = append(errs, fmt.Errorf("measurement must be positive, got %s", c.Measurement))
	}
	if c.SampleSize < 2 {
		errs = append(errs, fmt.Errorf("sample size must be at least 2, got %d", c.SampleSize))
	}

	return errors.Join(errs...)
}
