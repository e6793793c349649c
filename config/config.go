// Package config loads benchmark profiles from TOML files.
//
// A profile selects the adapter and overrides harness timing per group:
//
//	[device]
//	power_preference = "high-performance"
//	backend = "vulkan"
//
//	[groups.overhead]
//	warm_up = "500ms"
//	measurement = "2s"
//	sample_size = 20
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

// Profile is the decoded TOML file.
type Profile struct {
	Device Device           `toml:"device"`
	Groups map[string]Group `toml:"groups"`
}

// Device selects the adapter.
type Device struct {
	PowerPreference string `toml:"power_preference"`
	Backend         string `toml:"backend"`
	ForceFallback   bool   `toml:"force_fallback"`
}

// Group overrides the harness config of one benchmark group.
// Zero fields keep the group default.
type Group struct {
	WarmUp      string `toml:"warm_up"`
	Measurement string `toml:"measurement"`
	SampleSize  int    `toml:"sample_size"`
}

// Load reads a profile from path. An empty path yields an empty profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a TOML profile, rejecting unknown keys.
func Parse(data []byte) (*Profile, error) {
	var p Profile

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if _, err := gpu.ParsePowerPreference(p.Device.PowerPreference); err != nil {
		return nil, fmt.Errorf("device: %w", err)
	}
	if _, err := gpu.ParseBackend(p.Device.Backend); err != nil {
		return nil, fmt.Errorf("device: %w", err)
	}

	for name := range p.Groups {
		if _, err := p.Apply(name, harness.DefaultConfig()); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

// Options returns the adapter options of the profile.
func (p *Profile) Options() gpu.Options {
	return gpu.Options{
		PowerPreference:      p.Device.PowerPreference,
		Backend:              p.Device.Backend,
		ForceFallbackAdapter: p.Device.ForceFallback,
	}
}

// Apply returns cfg with the overrides for group applied.
func (p *Profile) Apply(group string, cfg harness.Config) (harness.Config, error) {
	g, ok := p.Groups[group]
	if !ok {
		return cfg, nil
	}

	var err error

	if g.WarmUp != "" {
		if cfg.WarmUp, err = time.ParseDuration(g.WarmUp); err != nil {
			return cfg, fmt.Errorf("groups.%s.warm_up: %w", group, err)
		}
	}
	if g.Measurement != "" {
		if cfg.Measurement, err = time.ParseDuration(g.Measurement); err != nil {
			return cfg, fmt.Errorf("groups.%s.measurement: %w", group, err)
		}
	}
	if g.SampleSize != 0 {
		cfg.SampleSize = g.SampleSize
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("groups.%s: %w", group, err)
	}

	return cfg, nil
}
