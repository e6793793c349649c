package suite

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

// Benchmarks of CPU memory and descriptor allocators.

const (
	largeBufferCount  = 7
	writeBufferCount  = 10
	writeBufferSize   = 1 << 25
	bindGroupsPerIter = 100
)

func allocationGroup() Group {
	const name = "allocation"

	return Group{
		Name: name,
		Config: harness.Config{
			WarmUp:      200 * time.Millisecond,
			Measurement: 1000 * time.Millisecond,
			SampleSize:  10,
		},
		Benchmarks: []Benchmark{
			{
				Group: name,
				Name:  "Create and free a list of large GPU-local buffers",
				Body:  createFreeLargeBuffers,
			},
			{
				Group: name,
				Name:  "Run a number of write_buffer commands",
				Body:  writeBuffers,
			},
			{
				Group: name,
				Name:  "Create and free a list of bind groups",
				Body:  createFreeBindGroups,
			},
		},
	}
}

// createFreeLargeBuffers allocates vertex buffers from 64KiB to 4MiB,
// frees them and waits for the device.
func createFreeLargeBuffers(gc *gpu.Context, b harness.Bencher) error {
	buffers := make([]*wgpu.Buffer, 0, largeBufferCount)

	release := func() {
		for _, buf := range buffers {
			buf.Release()
		}
		buffers = buffers[:0]
	}
	defer release()

	return b.Iter(func() error {
		for i := range largeBufferCount {
			buf, err := gc.Device.CreateBuffer(&wgpu.BufferDescriptor{
				Size:  1 << (16 + i),
				Usage: wgpu.BufferUsageVertex,
			})
			if err != nil {
				return fmt.Errorf("create buffer %d: %w", i, err)
			}
			buffers = append(buffers, buf)
		}

		release()
		gc.Wait()

		return nil
	})
}

// writeBuffers queues writes of growing prefixes of a 32MiB buffer and
// submits an empty batch to flush them.
func writeBuffers(gc *gpu.Context, b harness.Bencher) error {
	buf, err := gc.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  writeBufferSize,
		Usage: wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create buffer: %w", err)
	}
	defer buf.Release()

	data := bytes.Repeat([]byte{0xFF}, writeBufferSize)

	var perIter int64
	for i := range writeBufferCount {
		perIter += 1 << (16 + i)
	}
	b.SetBytes(perIter)

	err = b.Iter(func() error {
		for i := range writeBufferCount {
			if err := gc.Queue.WriteBuffer(buf, 0, data[:1<<(16+i)]); err != nil {
				return fmt.Errorf("write %d bytes: %w", 1<<(16+i), err)
			}
		}
		gc.Queue.Submit()

		return nil
	})
	gc.Wait()

	return err
}

// createFreeBindGroups creates and frees bind groups over a uniform
// buffer, a sampled texture and a sampler.
func createFreeBindGroups(gc *gpu.Context, b harness.Bencher) error {
	dev := gc.Device

	layout, err := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	defer layout.Release()

	buffer, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  16,
		Usage: wgpu.BufferUsageUniform,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer buffer.Release()

	texture, err := dev.CreateTexture(&smallTextureDesc)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Release()

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Format:          wgpu.TextureFormatR8Unorm,
		Dimension:       wgpu.TextureViewDimension2D,
		Aspect:          wgpu.TextureAspectAll,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create texture view: %w", err)
	}
	defer view.Release()

	sampler, err := dev.CreateSampler(&defaultSamplerDesc)
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	defer sampler.Release()

	desc := &wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: sampler},
		},
	}

	groups := make([]*wgpu.BindGroup, 0, bindGroupsPerIter)

	release := func() {
		for _, bg := range groups {
			bg.Release()
		}
		groups = groups[:0]
	}
	defer release()

	return b.Iter(func() error {
		for range bindGroupsPerIter {
			bg, err := dev.CreateBindGroup(desc)
			if err != nil {
				return fmt.Errorf("create bind group: %w", err)
			}
			groups = append(groups, bg)
		}

		release()
		gc.Wait()

		return nil
	})
}
