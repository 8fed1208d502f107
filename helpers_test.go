package imgfx

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// newTestMagnifier creates a magnifier over the source image with linear
// sampling, failing the test if construction does not yield a *Magnifier.
func newTestMagnifier(t *testing.T, lens Rect, zoom, inset float32) *Magnifier {
	t.Helper()
	f := NewMagnifier(lens, zoom, inset, SamplingLinear, nil, nil)
	m, ok := f.(*Magnifier)
	if !ok {
		t.Fatalf("NewMagnifier(%v, %v, %v) = %T, want *Magnifier", lens, zoom, inset, f)
	}
	return m
}

// newGradient returns an opaque image over r whose red channel is the
// pixel's x and green channel its y, both modulo 256.
func newGradient(r image.Rectangle) *image.RGBA {
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func newSolid(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func rectApproxEqual(a, b Rect) bool {
	return approxEqual(a.MinX, b.MinX) && approxEqual(a.MinY, b.MinY) &&
		approxEqual(a.MaxX, b.MaxX) && approxEqual(a.MaxY, b.MaxY)
}

func matrixApproxEqual(a, b Matrix) bool {
	return approxEqual(a.A, b.A) && approxEqual(a.B, b.B) && approxEqual(a.C, b.C) &&
		approxEqual(a.D, b.D) && approxEqual(a.E, b.E) && approxEqual(a.F, b.F)
}

// rawFilter is a Filter whose name and payload are supplied by the test.
// It is used to write streams the real filters never produce.
type rawFilter struct {
	name    string
	flatten func(w *WriteBuffer)
}

func (f rawFilter) RequiredInput(_ Mapping, desired IRect, _ Bounds) IRect { return desired }
func (f rawFilter) AvailableOutput(_ Mapping, content Bounds) Bounds      { return content }
func (f rawFilter) Evaluate(ctx Context) FilterResult                     { return ctx.Source() }
func (f rawFilter) FastBounds(src Rect) Rect                              { return src }
func (f rawFilter) Capability() MatrixCapability                          { return CapabilityComplex }
func (f rawFilter) TypeName() string                                      { return f.name }

func (f rawFilter) Flatten(w *WriteBuffer) {
	if f.flatten != nil {
		f.flatten(w)
	}
}

// evaluate runs f with an identity mapping over src.
func evaluate(t *testing.T, f Filter, src *image.RGBA, desired IRect) FilterResult {
	t.Helper()
	ctx := NewContext(IdentityMapping(), desired, NewFilterResult(src), WithWorkers(2))
	return f.Evaluate(ctx)
}
