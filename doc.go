// Package imgfx provides image filter nodes for a layer-based 2D renderer.
//
// # Overview
//
// imgfx is a Pure Go implementation of the magnifier filter: a lens that
// enlarges the content beneath a rectangle, with an optional inset band
// that blends the zoomed content smoothly back into the surrounding
// picture. Filters form a graph; each node knows how much input it needs,
// where it can draw, and how to serialize itself.
//
// # Quick Start
//
//	import "github.com/gogpu/imgfx"
//
//	// A 2x lens over (100,100)-(300,300) with a 20 px blend band
//	lens := imgfx.NewMagnifier(imgfx.MakeLTRB(100, 100, 300, 300), 2, 20,
//		imgfx.SamplingLinear, nil, nil)
//
//	// Evaluate over a source image at identity scale
//	out, err := imgfx.FilterImage(lens, img, imgfx.IdentityMapping())
//
// # Coordinate Spaces
//
// Filter parameters are authored in parameter space. A Mapping converts
// them into layer space, the pixel grid images are produced on, and
// carries a device matrix for the step from layer space to the final
// destination. The magnifier only accepts scale+translate layer matrices;
// DecomposeCTM splits any other CTM into a supported layer matrix and a
// device remainder.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Filter, Magnifier, Crop, Mapping, FilterResult, Serialize
//   - internal/image: layer-space RGBA sampling, warping and shading
//   - internal/shader: the magnifier blend program (WGSL and CPU port)
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package imgfx

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
