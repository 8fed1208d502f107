package imgfx

import (
	"image"

	fximage "github.com/gogpu/imgfx/internal/image"
)

// FilterResult is an image positioned in layer space. The zero value is an
// empty, fully transparent result.
//
// Results are never modified after creation, so one result may be shared by
// any number of consumers. Transformations always produce new results.
type FilterResult struct {
	image *image.RGBA
}

// NewFilterResult wraps img. The image's Rect is its layer-space position.
func NewFilterResult(img *image.RGBA) FilterResult {
	if img == nil || img.Rect.Empty() {
		return FilterResult{}
	}
	return FilterResult{image: img}
}

// IsEmpty returns true if the result has no pixels.
func (r FilterResult) IsEmpty() bool {
	return r.image == nil
}

// LayerBounds returns the layer-space bounds of the result.
func (r FilterResult) LayerBounds() IRect {
	if r.image == nil {
		return IRect{}
	}
	return IRectFromRectangle(r.image.Rect)
}

// Image returns the underlying image, or nil for an empty result. Callers
// must not modify it.
func (r FilterResult) Image() *image.RGBA {
	return r.image
}

// ApplyTransform resamples the result by m (layer space to layer space).
// Only the part of the output inside ctx.DesiredOutput() is produced.
func (r FilterResult) ApplyTransform(ctx Context, m Matrix, s Sampling) FilterResult {
	if r.IsEmpty() {
		return r
	}
	if m.IsIdentity() {
		return r.ApplyCrop(ctx, r.LayerBounds())
	}

	bounds, ok := m.MapRect(r.LayerBounds().Rect()).RoundOut().Intersect(ctx.DesiredOutput())
	if !ok {
		return FilterResult{}
	}
	return NewFilterResult(fximage.Warp(r.image, m.Aff3(), bounds.Rectangle(), s.kernel()))
}

// ApplyCrop restricts the result to crop and to ctx.DesiredOutput().
// Pixels outside are transparent.
func (r FilterResult) ApplyCrop(ctx Context, crop IRect) FilterResult {
	if r.IsEmpty() {
		return r
	}
	bounds, ok := r.LayerBounds().Intersect(crop)
	if ok {
		bounds, ok = bounds.Intersect(ctx.DesiredOutput())
	}
	if !ok {
		return FilterResult{}
	}
	if bounds == r.LayerBounds() {
		return r
	}
	return NewFilterResult(fximage.Crop(r.image, bounds.Rectangle()))
}

// evalShader fills bounds ∩ ctx.DesiredOutput() by sampling input at
// coord(pixel center). An empty input yields an empty result since every
// sample would be transparent.
func evalShader(ctx Context, input FilterResult, s Sampling, bounds IRect, coord fximage.CoordFunc) FilterResult {
	if input.IsEmpty() {
		return FilterResult{}
	}
	bounds, ok := bounds.Intersect(ctx.DesiredOutput())
	if !ok {
		return FilterResult{}
	}

	dst := image.NewRGBA(bounds.Rectangle())
	if err := fximage.Shade(ctx.Cancellation(), dst, input.image, s.kernel(), coord, ctx.Workers()); err != nil {
		Logger().Warn("imgfx: shader evaluation failed", "bounds", bounds, "err", err)
		return FilterResult{}
	}
	return NewFilterResult(dst)
}
