package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiihann/gpubench/harness"
)

const sampleProfile = `
[device]
power_preference = "high-performance"
backend = "vulkan"

[groups.overhead]
warm_up = "500ms"
measurement = "2s"
sample_size = 20

[groups.allocation]
sample_size = 15
`

func TestParseProfile(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	opts := p.Options()
	assert.Equal(t, "high-performance", opts.PowerPreference)
	assert.Equal(t, "vulkan", opts.Backend)
	assert.False(t, opts.ForceFallbackAdapter)

	cfg, err := p.Apply("overhead", harness.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, harness.Config{
		WarmUp:      500 * time.Millisecond,
		Measurement: 2 * time.Second,
		SampleSize:  20,
	}, cfg)

	base := harness.Config{
		WarmUp:      200 * time.Millisecond,
		Measurement: time.Second,
		SampleSize:  10,
	}
	cfg, err = p.Apply("allocation", base)
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, cfg.WarmUp)
	assert.Equal(t, 15, cfg.SampleSize)

	cfg, err = p.Apply("hardware", base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		profile string
	}{
		{"unknown key", "[device]\ncolor = \"red\"\n"},
		{"bad backend", "[device]\nbackend = \"glide\"\n"},
		{"bad power", "[device]\npower_preference = \"turbo\"\n"},
		{"bad duration", "[groups.overhead]\nwarm_up = \"soon\"\n"},
		{"sample size", "[groups.overhead]\nsample_size = 1\n"},
		{"syntax", "[device\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.profile))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, p.Groups)

	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o644))

	p, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Groups, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
