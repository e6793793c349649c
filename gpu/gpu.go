// Package gpu acquires the WebGPU adapter, device and queue that the
// benchmarks run against.
package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Options selects the adapter to benchmark.
type Options struct {
	// PowerPreference is one of "default", "low-power", "high-performance".
	PowerPreference string
	// Backend is one of "primary", "vulkan", "metal", "dx12", "gl".
	Backend              string
	ForceFallbackAdapter bool
}

// PowerPreferences returns the accepted power preference names.
func PowerPreferences() []string {
	return []string{"default", "low-power", "high-performance"}
}

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{"primary", "vulkan", "metal", "dx12", "gl"}
}

// ParsePowerPreference maps a power preference name to its wgpu value.
// The empty string is treated as "default".
func ParsePowerPreference(name string) (wgpu.PowerPreference, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return wgpu.PowerPreferenceUndefined, nil
	case "low-power":
		return wgpu.PowerPreferenceLowPower, nil
	case "high-performance":
		return wgpu.PowerPreferenceHighPerformance, nil
	default:
		return 0, fmt.Errorf("unknown power preference %q", name)
	}
}

// ParseBackend maps a backend name to its wgpu value.
// The empty string is treated as "primary", which lets the
// implementation pick among Vulkan, Metal and DX12.
func ParseBackend(name string) (wgpu.BackendType, error) {
	switch strings.ToLower(name) {
	case "", "primary":
		return wgpu.BackendTypeUndefined, nil
	case "vulkan":
		return wgpu.BackendTypeVulkan, nil
	case "metal":
		return wgpu.BackendTypeMetal, nil
	case "dx12":
		return wgpu.BackendTypeD3D12, nil
	case "gl":
		return wgpu.BackendTypeOpenGL, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", name)
	}
}

// Context holds the handles shared by the setup and timed sections of a
// benchmark. It is not safe for concurrent use.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	logger *slog.Logger
}

// Open creates an instance and blocks until an adapter and a device
// have been acquired.
func Open(ctx context.Context, logger *slog.Logger, opts Options) (*Context, error) {
	power, err := ParsePowerPreference(opts.PowerPreference)
	if err != nil {
		return nil, err
	}

	backend, err := ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gc := &Context{logger: logger}
	gc.Instance = wgpu.CreateInstance(nil)

	gc.Adapter, err = gc.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      power,
		BackendType:          backend,
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
	})
	if err != nil {
		gc.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	gc.Device, err = gc.Adapter.RequestDevice(nil)
	if err != nil {
		gc.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	gc.Queue = gc.Device.GetQueue()

	info := gc.Info()
	logger.InfoContext(ctx, "device acquired",
		slog.String("adapter", info.Name),
		slog.String("backend", info.Backend),
		slog.String("type", info.AdapterType),
	)

	return gc, nil
}

// Wait blocks until the device has finished all submitted work.
func (gc *Context) Wait() {
	gc.Device.Poll(true, nil)
}

// RequestDevice requests an additional device from the adapter.
// The caller owns the returned device.
func (gc *Context) RequestDevice() (*wgpu.Device, error) {
	dev, err := gc.Adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	return dev, nil
}

// Release frees the queue, device, adapter and instance. It may be
// called more than once.
func (gc *Context) Release() {
	if gc.Queue != nil {
		gc.Queue.Release()
		gc.Queue = nil
	}
	if gc.Device != nil {
		gc.Device.Release()
		gc.Device = nil
	}
	if gc.Adapter != nil {
		gc.Adapter.Release()
		gc.Adapter = nil
	}
	if gc.Instance != nil {
		gc.Instance.Release()
		gc.Instance = nil
	}
}
