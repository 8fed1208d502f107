// Package shader holds the magnifier blend program: its uniform block, the
// WGSL source for GPU backends and a CPU port of the same blend function.
package shader

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	"github.com/chewxy/math32"
)

// Uniform and child names shared by every backend.
const (
	UniformLensBounds = "lensBounds"
	UniformZoomXform  = "zoomXform"
	UniformInvInset   = "invInset"
	ChildSrc          = "src"
)

// UniformBlockSize is the std140 size of the magnifier uniform block:
// vec4 lensBounds, vec4 zoomXform, vec2 invInset padded to 16 bytes.
const UniformBlockSize = 48

// ErrInvalidInset is returned when an inset dimension is not positive.
var ErrInvalidInset = errors.New("shader: magnifier inset must be positive")

//go:embed magnifier.wgsl
var MagnifierWGSL string

// MagnifierUniforms is the uniform block of the magnifier program.
type MagnifierUniforms struct {
	// LensBounds is the lens rectangle in layer space as (left, top,
	// right, bottom).
	LensBounds [4]float32

	// ZoomXform packs the lens-to-source transform as (Tx, Ty, Sx, Sy):
	// the translation column followed by the two diagonal scale terms.
	ZoomXform [4]float32

	// InvInset is (1/insetWidth, 1/insetHeight) in layer space.
	InvInset [2]float32
}

// NewMagnifierUniforms packs the uniform block. The zoom transform is
// given by its scale+translate terms; insetW and insetH must be positive.
func NewMagnifierUniforms(lens [4]float32, tx, ty, sx, sy, insetW, insetH float32) (MagnifierUniforms, error) {
	if !(insetW > 0 && insetH > 0) {
		return MagnifierUniforms{}, ErrInvalidInset
	}
	return MagnifierUniforms{
		LensBounds: lens,
		ZoomXform:  [4]float32{tx, ty, sx, sy},
		InvInset:   [2]float32{1 / insetW, 1 / insetH},
	}, nil
}

// Named returns the uniforms keyed by their program names.
func (u MagnifierUniforms) Named() map[string][]float32 {
	return map[string][]float32{
		UniformLensBounds: u.LensBounds[:],
		UniformZoomXform:  u.ZoomXform[:],
		UniformInvInset:   u.InvInset[:],
	}
}

// Bytes returns the std140 little-endian encoding of the uniform block.
func (u MagnifierUniforms) Bytes() []byte {
	buf := make([]byte, UniformBlockSize)
	put := func(off int, vs []float32) {
		for i, v := range vs {
			binary.LittleEndian.PutUint32(buf[off+4*i:], math.Float32bits(v))
		}
	}
	put(0, u.LensBounds[:])
	put(16, u.ZoomXform[:])
	put(32, u.InvInset[:])
	return buf
}

// Weight returns how far the point (x, y) is pulled towards its zoomed
// position: 1 in the lens interior, 0 on the lens edge and outside.
func (u MagnifierUniforms) Weight(x, y float32) float32 {
	l := u.LensBounds
	ex := min(x-l[0], l[2]-x) * u.InvInset[0]
	ey := min(y-l[1], l[3]-y) * u.InvInset[1]

	var w float32
	if ex < 2 && ey < 2 {
		dx, dy := 2-ex, 2-ey
		w = 2 - math32.Sqrt(dx*dx+dy*dy)
	} else {
		w = min(ex, ey)
	}
	return min(max(w, 0), 1)
}

// SourceCoord returns the layer-space point the blend samples for the
// output pixel centered at (x, y).
func (u MagnifierUniforms) SourceCoord(x, y float32) (float32, float32) {
	zx := u.ZoomXform[0] + u.ZoomXform[2]*x
	zy := u.ZoomXform[1] + u.ZoomXform[3]*y
	w := u.Weight(x, y)
	t := w * w
	return x + (zx-x)*t, y + (zy-y)*t
}
