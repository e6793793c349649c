package suite

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/weiihann/gpubench/gpu"
	"github.com/weiihann/gpubench/harness"
)

const (
	pixelWriteSize      = 4096
	pixelWriteInstances = 200
)

func hardwareGroup() Group {
	const name = "hardware"

	return Group{
		Name: name,
		Config: harness.Config{
			WarmUp:      500 * time.Millisecond,
			Measurement: 2000 * time.Millisecond,
			SampleSize:  10,
		},
		Benchmarks: []Benchmark{
			{
				Group:    name,
				Name:     "pixel write",
				Disabled: "measures GPU fill rate; needs GPU timers to be meaningful",
				Body:     pixelWrite,
			},
		},
	}
}

// pixelWrite fills a 4096x4096 Rgba32Float target with 200 instanced
// full-screen quads per iteration and waits for the GPU.
func pixelWrite(gc *gpu.Context, b harness.Bencher) error {
	dev := gc.Device

	layout, err := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	defer layout.Release()

	vs, err := gc.ShaderModule("quad.wgsl")
	if err != nil {
		return err
	}
	defer vs.Release()

	fs, err := gc.ShaderModule("white.wgsl")
	if err != nil {
		return err
	}
	defer fs.Release()

	// Float32 targets are not blendable; a nil blend state replaces.
	pipeline, err := dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: "main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: "main",
			Targets: []wgpu.ColorTargetState{{
				Format:    wgpu.TextureFormatRGBA32Float,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	defer pipeline.Release()

	texture, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              pixelWriteSize,
			Height:             pixelWriteSize,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA32Float,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create render target: %w", err)
	}
	defer texture.Release()

	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create render target view: %w", err)
	}
	defer view.Release()

	passDesc := blackClearPass(view)

	return b.Iter(func() error {
		enc, err := dev.CreateCommandEncoder(nil)
		if err != nil {
			return fmt.Errorf("create command encoder: %w", err)
		}

		pass := enc.BeginRenderPass(passDesc)
		pass.SetPipeline(pipeline)
		pass.Draw(4, pixelWriteInstances, 0, 0)
		err = pass.End()
		pass.Release()
		if err != nil {
			enc.Release()
			return fmt.Errorf("end render pass: %w", err)
		}

		if err := submitEncoder(gc.Queue, enc); err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		gc.Wait()

		return nil
	})
}
