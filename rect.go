package imgfx

import (
	"image"

	"github.com/chewxy/math32"
)

// roundEpsilon absorbs float error when snapping layer-space rectangles to
// the pixel grid, so 10.0004 rounds out to 10 rather than 11.
const roundEpsilon = 1e-3

// Rect represents a floating point rectangle. A Rect is empty when it has
// no area; the edges of an empty Rect are otherwise meaningless.
type Rect struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// MakeXYWH creates a rectangle from its top-left corner and size.
func MakeXYWH(x, y, w, h float32) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// MakeLTRB creates a rectangle from its four edges.
func MakeLTRB(l, t, r, b float32) Rect {
	return Rect{MinX: l, MinY: t, MaxX: r, MaxY: b}
}

// IsEmpty returns true if the rectangle has no area. NaN edges are empty.
func (r Rect) IsEmpty() bool {
	return !(r.MinX < r.MaxX && r.MinY < r.MaxY)
}

// IsFinite returns true if all four edges are finite.
func (r Rect) IsFinite() bool {
	return isFinite(r.MinX) && isFinite(r.MinY) && isFinite(r.MaxX) && isFinite(r.MaxY)
}

// Width returns the width of the rectangle. It may be negative for
// inverted rectangles.
func (r Rect) Width() float32 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float32 {
	return r.MaxY - r.MinY
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() Size {
	return Size{W: r.Width(), H: r.Height()}
}

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.MinX*0.5 + r.MaxX*0.5, Y: r.MinY*0.5 + r.MaxY*0.5}
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy float32) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Intersect returns the overlap of r and other. The boolean result is false
// when the overlap is empty, in which case the returned rectangle is the
// zero Rect.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	out := Rect{
		MinX: max(r.MinX, other.MinX),
		MinY: max(r.MinY, other.MinY),
		MaxX: min(r.MaxX, other.MaxX),
		MaxY: min(r.MaxY, other.MaxY),
	}
	if out.IsEmpty() {
		return Rect{}, false
	}
	return out, true
}

// Contains returns true if other lies entirely within r. Empty rectangles
// neither contain nor are contained.
func (r Rect) Contains(other Rect) bool {
	return !r.IsEmpty() && !other.IsEmpty() &&
		r.MinX <= other.MinX && r.MinY <= other.MinY &&
		r.MaxX >= other.MaxX && r.MaxY >= other.MaxY
}

// Clamp pins p into the rectangle independently on each axis.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: min(max(p.X, r.MinX), r.MaxX),
		Y: min(max(p.Y, r.MinY), r.MaxY),
	}
}

// RoundOut returns the smallest integer rectangle containing r, ignoring
// sub-pixel overhang below roundEpsilon.
func (r Rect) RoundOut() IRect {
	return IRect{
		MinX: int(math32.Floor(r.MinX + roundEpsilon)),
		MinY: int(math32.Floor(r.MinY + roundEpsilon)),
		MaxX: int(math32.Ceil(r.MaxX - roundEpsilon)),
		MaxY: int(math32.Ceil(r.MaxY - roundEpsilon)),
	}
}

// IRect is an integer rectangle on the pixel grid, half-open on its max
// edges like image.Rectangle.
type IRect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// IRectFromRectangle converts an image.Rectangle.
func IRectFromRectangle(r image.Rectangle) IRect {
	return IRect{MinX: r.Min.X, MinY: r.Min.Y, MaxX: r.Max.X, MaxY: r.Max.Y}
}

// IsEmpty returns true if the rectangle covers no pixels.
func (r IRect) IsEmpty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Width returns the width in pixels.
func (r IRect) Width() int {
	return r.MaxX - r.MinX
}

// Height returns the height in pixels.
func (r IRect) Height() int {
	return r.MaxY - r.MinY
}

// Intersect returns the overlap of r and other, and false when it is empty.
func (r IRect) Intersect(other IRect) (IRect, bool) {
	out := IRect{
		MinX: max(r.MinX, other.MinX),
		MinY: max(r.MinY, other.MinY),
		MaxX: min(r.MaxX, other.MaxX),
		MaxY: min(r.MaxY, other.MaxY),
	}
	if out.IsEmpty() {
		return IRect{}, false
	}
	return out, true
}

// Contains returns true if other lies entirely within r.
func (r IRect) Contains(other IRect) bool {
	return !r.IsEmpty() && !other.IsEmpty() &&
		r.MinX <= other.MinX && r.MinY <= other.MinY &&
		r.MaxX >= other.MaxX && r.MaxY >= other.MaxY
}

// Rect converts to a float rectangle.
func (r IRect) Rect() Rect {
	return Rect{
		MinX: float32(r.MinX),
		MinY: float32(r.MinY),
		MaxX: float32(r.MaxX),
		MaxY: float32(r.MaxY),
	}
}

// Rectangle converts to an image.Rectangle.
func (r IRect) Rectangle() image.Rectangle {
	return image.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY)
}
