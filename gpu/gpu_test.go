package gpu

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePowerPreference(t *testing.T) {
	tests := []struct {
		name string
		want wgpu.PowerPreference
	}{
		{"", wgpu.PowerPreferenceUndefined},
		{"default", wgpu.PowerPreferenceUndefined},
		{"low-power", wgpu.PowerPreferenceLowPower},
		{"High-Performance", wgpu.PowerPreferenceHighPerformance},
	}

	for _, tt := range tests {
		got, err := ParsePowerPreference(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParsePowerPreference("turbo")
	assert.Error(t, err)
}

func TestParseBackend(t *testing.T) {
	for _, name := range Backends() {
		_, err := ParseBackend(name)
		assert.NoError(t, err, name)
	}

	got, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, wgpu.BackendTypeUndefined, got)

	got, err = ParseBackend("vulkan")
	require.NoError(t, err)
	assert.Equal(t, wgpu.BackendTypeVulkan, got)

	_, err = ParseBackend("glide")
	assert.Error(t, err)
}

func TestPowerPreferencesParse(t *testing.T) {
	for _, name := range PowerPreferences() {
		_, err := ParsePowerPreference(name)
		assert.NoError(t, err, name)
	}
}

func TestShaderSource(t *testing.T) {
	for _, name := range []string{"quad.wgsl", "white.wgsl"} {
		src, err := ShaderSource(name)
		require.NoError(t, err, name)
		assert.True(t, strings.Contains(src, "fn main"), name)
	}

	_, err := ShaderSource("missing.wgsl")
	assert.Error(t, err)
}

func TestInfoWithoutAdapter(t *testing.T) {
	var gc Context
	assert.Equal(t, AdapterInfo{}, gc.Info())
	gc.Release()
}
