package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsWellFormed(t *testing.T) {
	seen := make(map[string]bool)

	for _, g := range Groups() {
		require.NoError(t, g.Config.Validate(), g.Name)
		require.NotEmpty(t, g.Benchmarks, g.Name)

		for _, bm := range g.Benchmarks {
			key := g.Name + "/" + bm.Name
			assert.False(t, seen[key], "duplicate benchmark %s", key)
			seen[key] = true

			assert.Equal(t, g.Name, bm.Group, key)
			assert.NotNil(t, bm.Body, key)
		}
	}
}

func TestGroupNames(t *testing.T) {
	assert.Equal(t, []string{"allocation", "overhead", "hardware"}, GroupNames())
}

func TestEnabledBenchmarks(t *testing.T) {
	groups, err := Select(Filter{})
	require.NoError(t, err)

	var names []string
	for _, g := range groups {
		for _, bm := range g.Benchmarks {
			names = append(names, g.Name+"/"+bm.Name)
		}
	}

	assert.Equal(t, []string{
		"allocation/Create and free a list of large GPU-local buffers",
		"allocation/Run a number of write_buffer commands",
		"allocation/Create and free a list of bind groups",
		"overhead/Device::create_sampler",
		"overhead/CommandEncoder::begin_compute_pass",
		"overhead/Queue::submit(empty)",
		"overhead/Queue::submit(dummy_command_buffer)",
	}, names)
}

func TestSelectIncludeDisabled(t *testing.T) {
	groups, err := Select(Filter{
		Groups:          []string{"hardware"},
		IncludeDisabled: true,
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Benchmarks, 1)
	assert.Equal(t, "pixel write", groups[0].Benchmarks[0].Name)
}

func TestSelectDropsEmptyGroups(t *testing.T) {
	groups, err := Select(Filter{Groups: []string{"hardware"}})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSelectMatch(t *testing.T) {
	groups, err := Select(Filter{Match: "QUEUE::SUBMIT"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "overhead", groups[0].Name)
	assert.Len(t, groups[0].Benchmarks, 2)
}

func TestSelectUnknownGroup(t *testing.T) {
	_, err := Select(Filter{Groups: []string{"raytracing"}})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	bm, err := Lookup("overhead", "Device::create_sampler")
	require.NoError(t, err)
	assert.Empty(t, bm.Disabled)

	bm, err = Lookup("overhead", "Adapter::request_device")
	require.NoError(t, err)
	assert.NotEmpty(t, bm.Disabled)

	_, err = Lookup("overhead", "Device::create_surface")
	assert.Error(t, err)

	_, err = Lookup("memory", "anything")
	assert.Error(t, err)
}
