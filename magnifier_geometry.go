package imgfx

// zoomGeometry is the layer-space placement of one magnifier evaluation.
type zoomGeometry struct {
	// lensBounds is the whole lens in layer space.
	lensBounds Rect

	// visibleLens is the part of the lens inside the desired output.
	visibleLens Rect

	// center is the zoom center after clamping into the child's output.
	center Point

	// srcRect is the region shown magnified across the lens, or across
	// visibleLens after fitting.
	srcRect Rect

	// zoomXform maps lens points to the source points they display.
	zoomXform Matrix
}

// solveZoomGeometry places the magnified source region for a lens.
//
// The zoom is centered on the lens, moved as little as needed so the center
// lies within childOutput, and capped so the source region never shrinks
// below half a pixel. When only part of the lens is visible and the zoomed
// region would fall outside childOutput, the region is slid back inside so
// the visible part shows real content. It returns false if the lens does
// not touch desiredOutput.
func solveZoomGeometry(lens Rect, zoom float32, desiredOutput IRect, childOutput Bounds) (zoomGeometry, bool) {
	visible, ok := lens.Intersect(desiredOutput.Rect())
	if !ok {
		return zoomGeometry{}, false
	}

	expected := lens
	if r, bounded := childOutput.Rect(); bounded {
		expected = r.Rect()
	}
	center := expected.Clamp(lens.Center())

	maxLensSize := max(1, lens.Width(), lens.Height())
	invZoom := 1 / min(zoom, 2*maxLensSize)
	keep := 1 - invZoom
	src := Rect{
		MinX: lens.MinX*invZoom + center.X*keep,
		MinY: lens.MinY*invZoom + center.Y*keep,
		MaxX: lens.MaxX*invZoom + center.X*keep,
		MaxY: lens.MaxY*invZoom + center.Y*keep,
	}
	zoomXform, _ := RectToRect(lens, src)

	if !expected.Contains(visible) {
		fitted := zoomXform.MapRect(visible)
		if expected.Width() >= fitted.Width() && expected.Height() >= fitted.Height() {
			left := slideInto(fitted.MinX, fitted.MaxX, expected.MinX, expected.MaxX)
			top := slideInto(fitted.MinY, fitted.MaxY, expected.MinY, expected.MaxY)
			src = MakeXYWH(left, top, fitted.Width(), fitted.Height())
			zoomXform, _ = RectToRect(visible, src)
		}
	}

	return zoomGeometry{
		lensBounds:  lens,
		visibleLens: visible,
		center:      center,
		srcRect:     src,
		zoomXform:   zoomXform,
	}, true
}

// slideInto returns the new minimum edge of [lo, hi] moved the least
// distance needed to fit inside [lower, upper]. The span must not be wider
// than the target.
func slideInto(lo, hi, lower, upper float32) float32 {
	if lo < lower {
		return lower
	}
	return min(hi, upper) - (hi - lo)
}
