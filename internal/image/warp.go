package image

import (
	stdimage "image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Interpolator returns the x/image/draw interpolator matching k.
func (k Kernel) Interpolator() draw.Interpolator {
	switch k.Mode {
	case InterpNearest:
		return draw.NearestNeighbor
	case InterpBilinear:
		return draw.BiLinear
	case InterpBicubic:
		if k.B == 0 && k.C == 0.5 {
			return draw.CatmullRom
		}
		b, c := k.B, k.C
		return &draw.Kernel{
			Support: 2,
			At: func(t float64) float64 {
				return cubicWeight(t, b, c)
			},
		}
	default:
		return draw.NearestNeighbor
	}
}

// Warp resamples src into a new image covering dstRect, where m maps src
// layer coordinates to dst layer coordinates. Destination pixels whose
// preimage falls outside src stay transparent.
func Warp(src *stdimage.RGBA, m f64.Aff3, dstRect stdimage.Rectangle, k Kernel) *stdimage.RGBA {
	dst := stdimage.NewRGBA(dstRect)
	if src == nil || src.Rect.Empty() || dstRect.Empty() {
		return dst
	}
	k.Interpolator().Transform(dst, m, src, src.Rect, draw.Src, nil)
	return dst
}

// Crop copies the part of src inside r into a new image positioned at
// r.Intersect(src.Rect) in layer space.
func Crop(src *stdimage.RGBA, r stdimage.Rectangle) *stdimage.RGBA {
	r = r.Intersect(src.Rect)
	if r.Empty() {
		return stdimage.NewRGBA(stdimage.Rectangle{})
	}
	out := transform.Crop(zeroBased(src), r.Sub(src.Rect.Min))
	return placeAt(out, r.Min)
}

// zeroBased returns a view of img sharing its pixels with Rect.Min at (0, 0).
func zeroBased(img *stdimage.RGBA) *stdimage.RGBA {
	return &stdimage.RGBA{
		Pix:    img.Pix,
		Stride: img.Stride,
		Rect:   stdimage.Rectangle{Max: img.Rect.Size()},
	}
}

// ToRGBA returns img as a premultiplied RGBA image that keeps img's bounds.
// RGBA inputs are returned as is.
func ToRGBA(img stdimage.Image) *stdimage.RGBA {
	if rgba, ok := img.(*stdimage.RGBA); ok {
		return rgba
	}
	return placeAt(clone.AsRGBA(img), img.Bounds().Min)
}

// placeAt re-anchors a tightly packed image so its top-left pixel sits at
// origin. bild may return images rebased to (0, 0); the pixel layout is the
// same either way.
func placeAt(img *stdimage.RGBA, origin stdimage.Point) *stdimage.RGBA {
	size := img.Rect.Size()
	img.Rect = stdimage.Rectangle{Min: origin, Max: origin.Add(size)}
	return img
}
