package suite

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

const (
	reasonDeviceDestruction = "requires proper device destruction"
	reasonResourceHang      = "hangs after ~200k resources on Metal/Intel"
	reasonQueueLimits       = "one command buffer per pass exhausts queue limits on Metal"
	reasonCopyTimeout       = "takes too long without a configurable timeout"
	copyBufferSize          = 16
)

func overheadGroup() Group {
	const name = "overhead"

	bench := func(n, disabled string, body Body) Benchmark {
		return Benchmark{Group: name, Name: n, Disabled: disabled, Body: body}
	}

	return Group{
		Name:   name,
		Config: harness.DefaultConfig(),
		Benchmarks: []Benchmark{
			// initialization
			bench("Adapter::request_device", reasonDeviceDestruction, requestDevice),

			// resource creation
			bench("Device::create_buffer", reasonResourceHang, createBuffer),
			bench("Device::create_buffer_mapped", reasonResourceHang, createBufferMapped),
			bench("Device::create_texture", reasonResourceHang, createTexture),
			bench("Device::create_sampler", "", createSampler),

			// command encoding
			bench("CommandEncoder::begin_render_pass", reasonQueueLimits, beginRenderPass),
			bench("CommandEncoder::begin_compute_pass", "", beginComputePass),
			bench("CommandEncoder::copy_buffer_to_buffer", reasonCopyTimeout, copyBufferToBuffer),

			// queue operation
			bench("Queue::submit(empty)", "", submitEmpty),
			bench("Queue::submit(dummy_command_buffer)", "", submitDummy),
		},
	}
}

func requestDevice(gc *gpu.Context, b harness.Bencher) error {
	return b.Iter(func() error {
		dev, err := gc.RequestDevice()
		if err != nil {
			return err
		}
		dev.Release()

		return nil
	})
}

func createBuffer(gc *gpu.Context, b harness.Bencher) error {
	desc := wgpu.BufferDescriptor{
		Size:  16,
		Usage: wgpu.BufferUsageVertex,
	}

	return b.Iter(func() error {
		buf, err := gc.Device.CreateBuffer(&desc)
		if err != nil {
			return fmt.Errorf("create buffer: %w", err)
		}
		buf.Release()

		return nil
	})
}

func createBufferMapped(gc *gpu.Context, b harness.Bencher) error {
	desc := wgpu.BufferDescriptor{
		Size:             16,
		Usage:            wgpu.BufferUsageVertex,
		MappedAtCreation: true,
	}

	return b.Iter(func() error {
		buf, err := gc.Device.CreateBuffer(&desc)
		if err != nil {
			return fmt.Errorf("create mapped buffer: %w", err)
		}
		err = buf.Unmap()
		buf.Release()
		if err != nil {
			return fmt.Errorf("unmap buffer: %w", err)
		}

		return nil
	})
}

func createTexture(gc *gpu.Context, b harness.Bencher) error {
	desc := smallTextureDesc

	return b.Iter(func() error {
		tex, err := gc.Device.CreateTexture(&desc)
		if err != nil {
			return fmt.Errorf("create texture: %w", err)
		}
		tex.Release()

		return nil
	})
}

func createSampler(gc *gpu.Context, b harness.Bencher) error {
	desc := wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   10,
		Compare:       wgpu.CompareFunctionAlways,
		MaxAnisotropy: 1,
	}

	return b.Iter(func() error {
		s, err := gc.Device.CreateSampler(&desc)
		if err != nil {
			return fmt.Errorf("create sampler: %w", err)
		}
		s.Release()

		return nil
	})
}

func beginRenderPass(gc *gpu.Context, b harness.Bencher) error {
	texture, err := gc.Device.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              4,
			Height:             4,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Release()

	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create texture view: %w", err)
	}
	defer view.Release()

	passDesc := blackClearPass(view)

	enc, err := gc.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	err = b.Iter(func() error {
		pass := enc.BeginRenderPass(passDesc)
		defer pass.Release()

		return pass.End()
	})
	if err != nil {
		enc.Release()
		return err
	}

	if err := submitEncoder(gc.Queue, enc); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	gc.Wait()

	return nil
}

func beginComputePass(gc *gpu.Context, b harness.Bencher) error {
	enc, err := gc.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	err = b.Iter(func() error {
		pass := enc.BeginComputePass(nil)
		defer pass.Release()

		return pass.End()
	})
	if err != nil {
		enc.Release()
		return err
	}

	if err := submitEncoder(gc.Queue, enc); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	gc.Wait()

	return nil
}

func copyBufferToBuffer(gc *gpu.Context, b harness.Bencher) error {
	desc := wgpu.BufferDescriptor{
		Size:  copyBufferSize,
		Usage: wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	}

	src, err := gc.Device.CreateBuffer(&desc)
	if err != nil {
		return fmt.Errorf("create source buffer: %w", err)
	}
	defer src.Release()

	dst, err := gc.Device.CreateBuffer(&desc)
	if err != nil {
		return fmt.Errorf("create destination buffer: %w", err)
	}
	defer dst.Release()

	enc, err := gc.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	b.SetBytes(copyBufferSize)

	err = b.Iter(func() error {
		return enc.CopyBufferToBuffer(src, 0, dst, 0, copyBufferSize)
	})
	if err != nil {
		enc.Release()
		return err
	}

	if err := submitEncoder(gc.Queue, enc); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	gc.Wait()

	return nil
}

func submitEmpty(gc *gpu.Context, b harness.Bencher) error {
	err := b.Iter(func() error {
		gc.Queue.Submit()
		return nil
	})
	gc.Wait()

	return err
}

func submitDummy(gc *gpu.Context, b harness.Bencher) error {
	err := b.Iter(func() error {
		enc, err := gc.Device.CreateCommandEncoder(nil)
		if err != nil {
			return fmt.Errorf("create command encoder: %w", err)
		}

		return submitEncoder(gc.Queue, enc)
	})
	gc.Wait()

	return err
}
