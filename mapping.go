package imgfx

import "github.com/chewxy/math32"

// MatrixCapability describes the most complex parameter-to-layer mapping a
// filter can evaluate correctly.
type MatrixCapability uint8

const (
	// CapabilityTranslate filters only tolerate translation.
	CapabilityTranslate MatrixCapability = iota

	// CapabilityScaleTranslate filters tolerate axis-aligned scale plus
	// translation, but no rotation, skew or perspective.
	CapabilityScaleTranslate

	// CapabilityComplex filters accept any affine mapping.
	CapabilityComplex
)

// String returns a human-readable name for the capability.
func (c MatrixCapability) String() string {
	switch c {
	case CapabilityTranslate:
		return "Translate"
	case CapabilityScaleTranslate:
		return "ScaleTranslate"
	case CapabilityComplex:
		return "Complex"
	default:
		return unknownStr
	}
}

// Supports reports whether m is simple enough for this capability.
func (c MatrixCapability) Supports(m Matrix) bool {
	switch c {
	case CapabilityTranslate:
		return m.IsTranslate()
	case CapabilityScaleTranslate:
		return m.IsScaleTranslate()
	default:
		return true
	}
}

const unknownStr = "Unknown"

// Mapping converts between the coordinate spaces of one filter evaluation.
//
// Parameter space is where filter arguments (lens bounds, crop rects) are
// authored. Layer space is where images are produced; the layer matrix maps
// parameter space into it. Device space is the final destination; the device
// matrix maps layer space into it and carries whatever part of the caller's
// CTM the filter graph could not absorb.
type Mapping struct {
	layer  Matrix
	device Matrix
}

// IdentityMapping returns a mapping where all three spaces coincide.
func IdentityMapping() Mapping {
	return Mapping{layer: Identity(), device: Identity()}
}

// NewMapping returns a mapping with the given parameter-to-layer matrix and
// an identity layer-to-device matrix.
func NewMapping(paramToLayer Matrix) Mapping {
	return Mapping{layer: paramToLayer, device: Identity()}
}

// DecomposeCTM splits ctm into a parameter-to-layer matrix that satisfies
// capability and a layer-to-device remainder, such that
// DeviceMatrix() * LayerMatrix() == ctm.
//
// For CapabilityScaleTranslate with a rotated or skewed ctm, the layer matrix
// is the scale of ctm's basis vectors so filters still operate at device
// resolution.
func DecomposeCTM(ctm Matrix, capability MatrixCapability) Mapping {
	if capability.Supports(ctm) {
		return NewMapping(ctm)
	}

	layer := Identity()
	if capability == CapabilityScaleTranslate {
		sx := math32.Sqrt(ctm.A*ctm.A + ctm.D*ctm.D)
		sy := math32.Sqrt(ctm.B*ctm.B + ctm.E*ctm.E)
		if sx > 0 && sy > 0 && isFinite(sx) && isFinite(sy) {
			layer = Scale(sx, sy)
		}
	}

	inv, err := layer.Invert()
	if err != nil {
		return Mapping{layer: Identity(), device: ctm}
	}
	return Mapping{layer: layer, device: ctm.Multiply(inv)}
}

// LayerMatrix returns the parameter-to-layer matrix.
func (m Mapping) LayerMatrix() Matrix {
	return m.layer
}

// DeviceMatrix returns the layer-to-device matrix.
func (m Mapping) DeviceMatrix() Matrix {
	return m.device
}

// ParamToLayerRect maps a parameter-space rectangle into layer space.
func (m Mapping) ParamToLayerRect(r Rect) Rect {
	return m.layer.MapRect(r)
}

// ParamToLayerPoint maps a parameter-space point into layer space.
func (m Mapping) ParamToLayerPoint(p Point) Point {
	return m.layer.MapPoint(p)
}

// ParamToLayerSize maps a parameter-space size into layer space. Each
// dimension is mapped as a vector along its axis and measured by length.
func (m Mapping) ParamToLayerSize(s Size) Size {
	return Size{
		W: m.layer.MapVector(Point{X: s.W}).Length(),
		H: m.layer.MapVector(Point{Y: s.H}).Length(),
	}
}

// Bounds is an optional layer-space rectangle. The zero value is unbounded,
// meaning the producer places no restriction on where pixels may appear.
type Bounds struct {
	rect IRect
	ok   bool
}

// Bounded returns bounds restricted to r. An empty r is a valid, explicit
// "nothing" and differs from Unbounded.
func Bounded(r IRect) Bounds {
	return Bounds{rect: r, ok: true}
}

// Unbounded returns bounds with no restriction.
func Unbounded() Bounds {
	return Bounds{}
}

// Rect returns the restriction and whether one exists.
func (b Bounds) Rect() (IRect, bool) {
	return b.rect, b.ok
}

// IsBounded reports whether a restriction exists.
func (b Bounds) IsBounded() bool {
	return b.ok
}
