package suite

import "github.com/cogentcore/webgpu/wgpu"

// Descriptors shared between benchmarks. They are copied by value
// before use; the library does not retain them.

var smallTextureDesc = wgpu.TextureDescriptor{
	Size: wgpu.Extent3D{
		Width:              4,
		Height:             4,
		DepthOrArrayLayers: 1,
	},
	MipLevelCount: 1,
	SampleCount:   1,
	Dimension:     wgpu.TextureDimension2D,
	Format:        wgpu.TextureFormatR8Unorm,
	Usage:         wgpu.TextureUsageTextureBinding,
}

var defaultSamplerDesc = wgpu.SamplerDescriptor{
	AddressModeU:  wgpu.AddressModeClampToEdge,
	AddressModeV:  wgpu.AddressModeClampToEdge,
	AddressModeW:  wgpu.AddressModeClampToEdge,
	MagFilter:     wgpu.FilterModeNearest,
	MinFilter:     wgpu.FilterModeNearest,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMinClamp:   0,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}

// blackClearPass clears view to opaque black and stores the result.
func blackClearPass(view *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	}
}

// submitEncoder finishes enc, submits it and releases both.
func submitEncoder(q *wgpu.Queue, enc *wgpu.CommandEncoder) error {
	defer enc.Release()

	cb, err := enc.Finish(nil)
	if err != nil {
		return err
	}
	defer cb.Release()

	q.Submit(cb)

	return nil
}
