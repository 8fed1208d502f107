package shader

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Bind group slots used by MagnifierWGSL.
const (
	BindingMagnifier = 0
	BindingPlacement = 1
	BindingSrc       = 2
	BindingSampler   = 3
)

// Entry points in MagnifierWGSL.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

var (
	compileOnce sync.Once
	spirvCode   []uint32
	errCompile  error
)

// CompileMagnifier compiles MagnifierWGSL to SPIR-V. The result is computed
// once and shared; callers must not modify the returned slice.
func CompileMagnifier() ([]uint32, error) {
	compileOnce.Do(func() {
		spirvCode, errCompile = compileToSPIRV(MagnifierWGSL)
	})
	return spirvCode, errCompile
}

// compileToSPIRV compiles WGSL source to a SPIR-V word slice.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("shader: compile magnifier: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: compile magnifier: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// ShaderModule returns the descriptor for creating the magnifier module
// from compiled SPIR-V.
func ShaderModule() (*hal.ShaderModuleDescriptor, error) {
	code, err := CompileMagnifier()
	if err != nil {
		return nil, err
	}
	return &hal.ShaderModuleDescriptor{
		Label:  "magnifier_shader",
		Source: hal.ShaderSource{SPIRV: code},
	}, nil
}

// BindGroupLayout returns the layout matching the bindings declared in
// MagnifierWGSL.
func BindGroupLayout() *hal.BindGroupLayoutDescriptor {
	return &hal.BindGroupLayoutDescriptor{
		Label: "magnifier_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    BindingMagnifier,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    BindingPlacement,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    BindingSrc,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    BindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	}
}

// Sampler returns the src sampler descriptor. Addressing clamps to edge;
// the program itself masks samples outside the texture.
func Sampler(linear bool, mipmap gputypes.FilterMode) *hal.SamplerDescriptor {
	filter := gputypes.FilterModeNearest
	if linear {
		filter = gputypes.FilterModeLinear
	}
	return &hal.SamplerDescriptor{
		Label:        "magnifier_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: mipmap,
	}
}
