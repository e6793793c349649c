package gpu

import (
	"embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/*.wgsl
var shaders embed.FS

// ShaderSource returns the WGSL source of an embedded shader,
// e.g. "quad.wgsl".
func ShaderSource(name string) (string, error) {
	b, err := shaders.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("load shader %s: %w", name, err)
	}

	return string(b), nil
}

// ShaderModule compiles an embedded shader on the device.
func (gc *Context) ShaderModule(name string) (*wgpu.ShaderModule, error) {
	src, err := ShaderSource(name)
	if err != nil {
		return nil, err
	}

	sm, err := gc.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader %s: %w", name, err)
	}

	return sm, nil
}
