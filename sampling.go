package imgfx

import (
	"fmt"

	fximage "github.com/gogpu/imgfx/internal/image"
)

// FilterMode selects between nearest and linear texel filtering.
type FilterMode uint8

const (
	// FilterNearest picks the texel containing the sample point.
	FilterNearest FilterMode = iota

	// FilterLinear blends the four nearest texels.
	FilterLinear
)

// String returns a human-readable name for the filter mode.
func (m FilterMode) String() string {
	switch m {
	case FilterNearest:
		return "Nearest"
	case FilterLinear:
		return "Linear"
	default:
		return unknownStr
	}
}

// MipmapMode selects how mip levels are chosen when minifying. The magnifier
// only ever enlarges, so CPU evaluation ignores it; it is forwarded to GPU
// sampler descriptors and preserved through serialization.
type MipmapMode uint8

const (
	// MipmapNone samples the base level only.
	MipmapNone MipmapMode = iota

	// MipmapNearest samples the closest level.
	MipmapNearest

	// MipmapLinear blends the two closest levels.
	MipmapLinear
)

// String returns a human-readable name for the mipmap mode.
func (m MipmapMode) String() string {
	switch m {
	case MipmapNone:
		return "None"
	case MipmapNearest:
		return "Nearest"
	case MipmapLinear:
		return "Linear"
	default:
		return unknownStr
	}
}

// Sampling is the resampling policy applied when warping pixels.
// When UseCubic is set, B and C select a Mitchell-Netravali cubic and
// Filter/Mipmap are ignored.
type Sampling struct {
	Filter   FilterMode
	Mipmap   MipmapMode
	UseCubic bool
	B, C     float32
}

// Sampling presets.
var (
	SamplingNearest    = Sampling{Filter: FilterNearest}
	SamplingLinear     = Sampling{Filter: FilterLinear}
	SamplingMitchell   = Sampling{UseCubic: true, B: 1.0 / 3, C: 1.0 / 3}
	SamplingCatmullRom = Sampling{UseCubic: true, B: 0, C: 0.5}
)

// String returns a compact description such as "Linear/None" or
// "Cubic(0.333,0.333)".
func (s Sampling) String() string {
	if s.UseCubic {
		return fmt.Sprintf("Cubic(%.3g,%.3g)", s.B, s.C)
	}
	return s.Filter.String() + "/" + s.Mipmap.String()
}

// IsValid reports whether every field is within range.
func (s Sampling) IsValid() bool {
	if s.UseCubic {
		return isFinite(s.B) && isFinite(s.C)
	}
	return s.Filter <= FilterLinear && s.Mipmap <= MipmapLinear
}

// kernel converts the policy to the raster package's representation.
func (s Sampling) kernel() fximage.Kernel {
	switch {
	case s.UseCubic:
		return fximage.CubicKernel(float64(s.B), float64(s.C))
	case s.Filter == FilterLinear:
		return fximage.Kernel{Mode: fximage.InterpBilinear}
	default:
		return fximage.Kernel{Mode: fximage.InterpNearest}
	}
}
