package imgfx

import (
	"math"
	"testing"

	"github.com/gogpu/gputypes"

	fximage "github.com/gogpu/imgfx/internal/image"
)

func TestSamplingString(t *testing.T) {
	tests := []struct {
		s    Sampling
		want string
	}{
		{SamplingNearest, "Nearest/None"},
		{SamplingLinear, "Linear/None"},
		{Sampling{Filter: FilterLinear, Mipmap: MipmapLinear}, "Linear/Linear"},
		{SamplingCatmullRom, "Cubic(0,0.5)"},
		{SamplingMitchell, "Cubic(0.333,0.333)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSamplingIsValid(t *testing.T) {
	tests := []struct {
		name string
		s    Sampling
		want bool
	}{
		{"linear", SamplingLinear, true},
		{"mitchell", SamplingMitchell, true},
		{"bad filter", Sampling{Filter: 5}, false},
		{"bad mipmap", Sampling{Mipmap: 5}, false},
		{"NaN cubic", Sampling{UseCubic: true, B: float32(math.NaN())}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSamplingKernel(t *testing.T) {
	tests := []struct {
		s    Sampling
		want fximage.Kernel
	}{
		{SamplingNearest, fximage.Kernel{Mode: fximage.InterpNearest}},
		{SamplingLinear, fximage.Kernel{Mode: fximage.InterpBilinear}},
		{SamplingCatmullRom, fximage.CubicKernel(0, 0.5)},
	}
	for _, tt := range tests {
		if got := tt.s.kernel(); got != tt.want {
			t.Errorf("%v.kernel() = %+v, want %+v", tt.s, got, tt.want)
		}
	}
}

func TestSamplingGPUFilterModes(t *testing.T) {
	tests := []struct {
		s          Sampling
		wantLinear bool
		wantMip    gputypes.FilterMode
	}{
		{SamplingNearest, false, gputypes.FilterModeNearest},
		{SamplingLinear, true, gputypes.FilterModeNearest},
		{Sampling{Filter: FilterLinear, Mipmap: MipmapLinear}, true, gputypes.FilterModeLinear},
		{SamplingMitchell, true, gputypes.FilterModeNearest},
	}
	for _, tt := range tests {
		linear, mip := tt.s.gpuFilterModes()
		if linear != tt.wantLinear || mip != tt.wantMip {
			t.Errorf("%v.gpuFilterModes() = %v, %v; want %v, %v", tt.s, linear, mip, tt.wantLinear, tt.wantMip)
		}
	}
}
