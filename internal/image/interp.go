// Package image implements the CPU raster side of imgfx: layer-space
// sampling of premultiplied RGBA images, band-parallel shading and affine
// warps.
//
// Images are *image.RGBA whose Rect is their position in layer space, so a
// pixel at (x, y) covers the unit square [x, x+1) x [y, y+1) and its center
// is (x+0.5, y+0.5). Sampling outside Rect yields transparent black (decal).
package image

import (
	stdimage "image"
	"image/color"
	"math"
)

// InterpolationMode defines how texture sampling is performed.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	// Fast but produces blocky results when scaling.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between 4 neighboring pixels.
	// Good balance between quality and performance.
	InterpBilinear

	// InterpBicubic performs cubic interpolation using a 4x4 pixel neighborhood.
	// Highest quality but slower than bilinear.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Kernel is a resampling filter. B and C are the Mitchell-Netravali
// parameters and only apply to InterpBicubic.
type Kernel struct {
	Mode InterpolationMode
	B, C float64
}

// CubicKernel returns a bicubic kernel with the given B and C.
func CubicKernel(b, c float64) Kernel {
	return Kernel{Mode: InterpBicubic, B: b, C: c}
}

// Sample samples img at layer-space point (x, y).
// Taps that fall outside img.Rect contribute transparent black.
func Sample(img *stdimage.RGBA, x, y float64, k Kernel) color.RGBA {
	switch k.Mode {
	case InterpNearest:
		return sampleNearest(img, x, y)
	case InterpBilinear:
		return sampleBilinear(img, x, y)
	case InterpBicubic:
		return sampleBicubic(img, x, y, k.B, k.C)
	default:
		return color.RGBA{}
	}
}

// sampleNearest returns the pixel whose square contains (x, y).
func sampleNearest(img *stdimage.RGBA, x, y float64) color.RGBA {
	return texel(img, int(math.Floor(x)), int(math.Floor(y)))
}

// sampleBilinear interpolates between the 4 pixel centers around (x, y).
func sampleBilinear(img *stdimage.RGBA, x, y float64) color.RGBA {
	fx := x - 0.5
	fy := y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := texel(img, x0, y0)
	c10 := texel(img, x0+1, y0)
	c01 := texel(img, x0, y0+1)
	c11 := texel(img, x0+1, y0+1)

	return color.RGBA{
		R: toByte(lerp2D(float64(c00.R), float64(c10.R), float64(c01.R), float64(c11.R), tx, ty)),
		G: toByte(lerp2D(float64(c00.G), float64(c10.G), float64(c01.G), float64(c11.G), tx, ty)),
		B: toByte(lerp2D(float64(c00.B), float64(c10.B), float64(c01.B), float64(c11.B), tx, ty)),
		A: toByte(lerp2D(float64(c00.A), float64(c10.A), float64(c01.A), float64(c11.A), tx, ty)),
	}
}

// sampleBicubic convolves the 4x4 neighbourhood around (x, y) with a
// Mitchell-Netravali kernel. The result is clamped so colour never exceeds
// alpha, keeping the output a valid premultiplied colour.
func sampleBicubic(img *stdimage.RGBA, x, y, b, c float64) color.RGBA {
	fx := x - 0.5
	fy := y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	wx := [4]float64{
		cubicWeight(tx+1, b, c),
		cubicWeight(tx, b, c),
		cubicWeight(tx-1, b, c),
		cubicWeight(tx-2, b, c),
	}
	wy := [4]float64{
		cubicWeight(ty+1, b, c),
		cubicWeight(ty, b, c),
		cubicWeight(ty-1, b, c),
		cubicWeight(ty-2, b, c),
	}

	var sr, sg, sb, sa float64
	for j := range 4 {
		for i := range 4 {
			p := texel(img, x0+i-1, y0+j-1)
			w := wx[i] * wy[j]
			sr += float64(p.R) * w
			sg += float64(p.G) * w
			sb += float64(p.B) * w
			sa += float64(p.A) * w
		}
	}

	a := toByte(sa)
	return color.RGBA{
		R: min(toByte(sr), a),
		G: min(toByte(sg), a),
		B: min(toByte(sb), a),
		A: a,
	}
}

// texel returns the pixel at integer layer coordinates, or transparent
// black outside the image.
func texel(img *stdimage.RGBA, x, y int) color.RGBA {
	if !(stdimage.Point{X: x, Y: y}).In(img.Rect) {
		return color.RGBA{}
	}
	i := img.PixOffset(x, y)
	s := img.Pix[i : i+4 : i+4]
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// toByte rounds and clamps a channel value to [0, 255].
func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	v0 := lerp(v00, v10, tx)
	v1 := lerp(v01, v11, tx)
	return lerp(v0, v1, ty)
}

// cubicWeight evaluates the Mitchell-Netravali filter at distance t.
// B=0, C=0.5 is Catmull-Rom; B=C=1/3 is the Mitchell filter.
func cubicWeight(t, b, c float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return ((12-9*b-6*c)*t*t*t + (-18+12*b+6*c)*t*t + (6 - 2*b)) / 6
	case t < 2:
		return ((-b-6*c)*t*t*t + (6*b+30*c)*t*t + (-12*b-48*c)*t + (8*b + 24*c)) / 6
	default:
		return 0
	}
}
