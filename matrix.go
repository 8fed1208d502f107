package imgfx

import (
	"errors"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f64"
)

// ErrSingularMatrix is returned when inverting a matrix with no inverse.
var ErrSingularMatrix = errors.New("imgfx: matrix is not invertible")

// nearlyZero is the determinant threshold below which a matrix is treated
// as singular (cubed to account for the determinant's scale).
const nearlyZero = 1.0 / (1 << 12)

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float32) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float32) Matrix {
	cos := math32.Cos(angle)
	sin := math32.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// RectToRect returns the scale+translate matrix that maps src onto dst.
// It returns the identity and false when src is empty.
func RectToRect(src, dst Rect) (Matrix, bool) {
	if src.IsEmpty() {
		return Identity(), false
	}
	sx := dst.Width() / src.Width()
	sy := dst.Height() / src.Height()
	return Matrix{
		A: sx, B: 0, C: dst.MinX - src.MinX*sx,
		D: 0, E: sy, F: dst.MinY - src.MinY*sy,
	}, true
}

// Multiply multiplies two matrices (m * other). The result applies other
// first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// MapPoint applies the transformation to a point.
func (m Matrix) MapPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// MapVector applies the transformation to a vector (no translation).
func (m Matrix) MapVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// MapRect returns the bounding box of r after transformation.
func (m Matrix) MapRect(r Rect) Rect {
	if m.IsScaleTranslate() {
		x0, x1 := r.MinX*m.A+m.C, r.MaxX*m.A+m.C
		y0, y1 := r.MinY*m.E+m.F, r.MaxY*m.E+m.F
		return Rect{MinX: min(x0, x1), MinY: min(y0, y1), MaxX: max(x0, x1), MaxY: max(y0, y1)}
	}
	p0 := m.MapPoint(Point{X: r.MinX, Y: r.MinY})
	p1 := m.MapPoint(Point{X: r.MaxX, Y: r.MinY})
	p2 := m.MapPoint(Point{X: r.MaxX, Y: r.MaxY})
	p3 := m.MapPoint(Point{X: r.MinX, Y: r.MaxY})
	return Rect{
		MinX: min(p0.X, p1.X, p2.X, p3.X),
		MinY: min(p0.Y, p1.Y, p2.Y, p3.Y),
		MaxX: max(p0.X, p1.X, p2.X, p3.X),
		MaxY: max(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}

// Invert returns the inverse matrix, or ErrSingularMatrix.
func (m Matrix) Invert() (Matrix, error) {
	if m.IsScaleTranslate() {
		if m.A == 0 || m.E == 0 {
			return Matrix{}, ErrSingularMatrix
		}
		invX := 1 / m.A
		invY := 1 / m.E
		inv := Matrix{
			A: invX, B: 0, C: -m.C * invX,
			D: 0, E: invY, F: -m.F * invY,
		}
		if !inv.IsFinite() {
			return Matrix{}, ErrSingularMatrix
		}
		return inv, nil
	}

	det := m.A*m.E - m.B*m.D
	if math32.Abs(det) <= nearlyZero*nearlyZero*nearlyZero || !isFinite(det) {
		return Matrix{}, ErrSingularMatrix
	}
	invDet := 1 / det
	inv := Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
	if !inv.IsFinite() {
		return Matrix{}, ErrSingularMatrix
	}
	return inv, nil
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// IsTranslate returns true if the matrix is only a translation.
func (m Matrix) IsTranslate() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// IsScaleTranslate returns true if the matrix has no rotation or skew.
func (m Matrix) IsScaleTranslate() bool {
	return m.B == 0 && m.D == 0
}

// IsFinite returns true if every entry is finite.
func (m Matrix) IsFinite() bool {
	return isFinite(m.A) && isFinite(m.B) && isFinite(m.C) &&
		isFinite(m.D) && isFinite(m.E) && isFinite(m.F)
}

// Aff3 converts the matrix to the x/image representation.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{
		float64(m.A), float64(m.B), float64(m.C),
		float64(m.D), float64(m.E), float64(m.F),
	}
}
