package imgfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/multierr"

	"github.com/gogpu/imgfx/internal/shader"
)

// magnifierTypeName is the registry name of the magnifier filter.
const magnifierTypeName = "imgfx.Magnifier"

// Magnifier draws its input with a circular-cornered zoom lens over a
// rectangular region.
//
// Inside the lens the input is enlarged about the lens center. Within inset
// of the lens edge the zoom blends smoothly back to the unmagnified input,
// with rounded corners. With a zero inset the lens shows the zoomed input
// with a hard edge.
//
// Magnifier only supports scale+translate mappings; callers with a more
// complex CTM should split it with DecomposeCTM.
type Magnifier struct {
	lensBounds Rect
	zoomAmount float32
	inset      float32
	sampling   Sampling
	input      Filter
}

// NewMagnifier creates a magnifier over lensBounds (parameter space).
//
// input is the filter to magnify, nil for the source image. If crop is not
// nil the input is first wrapped in a Crop to *crop.
//
// It returns nil when the arguments are invalid (see ValidateMagnifier).
// When zoomAmount <= 1 nothing would be magnified, so it returns the
// possibly cropped input directly, which is nil for an uncropped source.
func NewMagnifier(lensBounds Rect, zoomAmount, inset float32, sampling Sampling, input Filter, crop *Rect) Filter {
	if err := ValidateMagnifier(lensBounds, zoomAmount, inset); err != nil {
		Logger().Debug("imgfx: magnifier rejected", "lens", lensBounds, "zoom", zoomAmount, "inset", inset, "err", err)
		return nil
	}
	if crop != nil {
		input = NewCrop(*crop, input)
		if input == nil {
			Logger().Debug("imgfx: magnifier rejected", "crop", *crop, "err", errInvalidCrop)
			return nil
		}
	}
	if zoomAmount <= 1 {
		Logger().Debug("imgfx: magnifier is a pass-through", "zoom", zoomAmount)
		return input
	}
	return &Magnifier{
		lensBounds: lensBounds,
		zoomAmount: zoomAmount,
		inset:      inset,
		sampling:   sampling,
		input:      input,
	}
}

var errInvalidCrop = errors.New("imgfx: crop rect is not finite or not sorted")

// ValidateMagnifier reports every reason the magnifier arguments are
// rejected, or nil if they are acceptable.
func ValidateMagnifier(lensBounds Rect, zoomAmount, inset float32) error {
	var err error
	if !lensBounds.IsFinite() {
		err = multierr.Append(err, fmt.Errorf("imgfx: lens bounds %v are not finite", lensBounds))
	} else if lensBounds.IsEmpty() {
		err = multierr.Append(err, fmt.Errorf("imgfx: lens bounds %v are empty", lensBounds))
	}
	if !isFinite(zoomAmount) || zoomAmount <= 0 {
		err = multierr.Append(err, fmt.Errorf("imgfx: zoom %v must be finite and positive", zoomAmount))
	}
	if !isFinite(inset) || inset < 0 {
		err = multierr.Append(err, fmt.Errorf("imgfx: inset %v must be finite and non-negative", inset))
	}
	return err
}

// LensBounds returns the lens rectangle in parameter space.
func (f *Magnifier) LensBounds() Rect { return f.lensBounds }

// ZoomAmount returns the magnification factor.
func (f *Magnifier) ZoomAmount() float32 { return f.zoomAmount }

// Inset returns the width of the blend band in parameter space.
func (f *Magnifier) Inset() float32 { return f.inset }

// Sampling returns the resampling policy.
func (f *Magnifier) Sampling() Sampling { return f.sampling }

// Input returns the magnified filter, nil for the source image.
func (f *Magnifier) Input() Filter { return f.input }

// TypeName implements Filter.
func (f *Magnifier) TypeName() string { return magnifierTypeName }

// Capability implements Filter.
func (f *Magnifier) Capability() MatrixCapability { return CapabilityScaleTranslate }

// RequiredInput implements Filter.
//
// The whole lens is requested even when desiredOutput covers only part of
// it; the zoom center depends on where the input has content.
func (f *Magnifier) RequiredInput(m Mapping, desiredOutput IRect, content Bounds) IRect {
	lens := m.ParamToLayerRect(f.lensBounds).RoundOut()
	return childInputBounds(f.input, m, lens, content)
}

// AvailableOutput implements Filter.
func (f *Magnifier) AvailableOutput(m Mapping, content Bounds) Bounds {
	lens := m.ParamToLayerRect(f.lensBounds).RoundOut()
	child, bounded := childOutputBounds(f.input, m, content).Rect()
	if !bounded {
		return Bounded(lens)
	}
	out, ok := lens.Intersect(child)
	if !ok {
		return Bounded(IRect{})
	}
	return Bounded(out)
}

// FastBounds implements Filter.
func (f *Magnifier) FastBounds(src Rect) Rect {
	out, _ := childFastBounds(f.input, src).Intersect(f.lensBounds)
	return out
}

// Evaluate implements Filter. It panics if the mapping is more complex
// than scale+translate.
func (f *Magnifier) Evaluate(ctx Context) FilterResult {
	g, ok := f.geometry(ctx)
	if !ok {
		return FilterResult{}
	}

	inset := ctx.Mapping().ParamToLayerSize(Size{W: f.inset, H: f.inset})
	if inset.W <= 0 || inset.H <= 0 {
		return f.evaluateDirect(ctx, g)
	}
	return f.evaluateShader(ctx, g, inset)
}

func (f *Magnifier) geometry(ctx Context) (zoomGeometry, bool) {
	m := ctx.Mapping()
	f.checkMapping(m)
	lens := m.ParamToLayerRect(f.lensBounds)
	childBounds := childOutputBounds(f.input, m, ctx.ContentBounds())
	return solveZoomGeometry(lens, f.zoomAmount, ctx.DesiredOutput(), childBounds)
}

func (f *Magnifier) checkMapping(m Mapping) {
	if !f.Capability().Supports(m.LayerMatrix()) {
		panic(fmt.Sprintf("imgfx: magnifier requires a %v mapping, got %+v", f.Capability(), m.LayerMatrix()))
	}
}

// evaluateDirect draws the zoomed input with a hard lens edge.
func (f *Magnifier) evaluateDirect(ctx Context, g zoomGeometry) FilterResult {
	inv, err := g.zoomXform.Invert()
	if err != nil {
		Logger().Warn("imgfx: magnifier zoom transform is degenerate", "zoom", g.zoomXform, "err", err)
		return FilterResult{}
	}
	Logger().Debug("imgfx: magnifier direct path", "src", g.srcRect, "lens", g.lensBounds)

	lens := g.lensBounds.RoundOut()
	out, ok := ctx.DesiredOutput().Intersect(lens)
	if !ok {
		return FilterResult{}
	}
	child := childOutput(f.input, ctx.WithNewDesiredOutput(g.srcRect.RoundOut()))
	return child.ApplyTransform(ctx.WithNewDesiredOutput(out), inv, f.sampling).ApplyCrop(ctx, lens)
}

// evaluateShader blends the zoomed input into the unzoomed input across
// the inset band.
func (f *Magnifier) evaluateShader(ctx Context, g zoomGeometry, inset Size) FilterResult {
	u, err := g.uniforms(inset)
	if err != nil {
		Logger().Warn("imgfx: magnifier uniforms rejected", "inset", inset, "err", err)
		return FilterResult{}
	}
	Logger().Debug("imgfx: magnifier shader path", "src", g.srcRect, "lens", g.lensBounds, "inset", inset)

	child := childOutput(f.input, ctx.WithNewDesiredOutput(g.visibleLens.RoundOut()))
	return evalShader(ctx, child, f.sampling, g.lensBounds.RoundOut(), u.SourceCoord)
}

// uniforms packs the blend program's uniform block.
func (g zoomGeometry) uniforms(inset Size) (shader.MagnifierUniforms, error) {
	l := g.lensBounds
	z := g.zoomXform
	return shader.NewMagnifierUniforms(
		[4]float32{l.MinX, l.MinY, l.MaxX, l.MaxY},
		z.C, z.F, z.A, z.E,
		inset.W, inset.H,
	)
}

// Program describes the blend program for a GPU backend.
type Program struct {
	// Bounds is the layer-space region the program covers.
	Bounds IRect

	// InputBounds is the region to request from the input filter and bind
	// as the src texture.
	InputBounds IRect

	// Uniforms holds the std140 uniform block.
	Uniforms []byte

	// Named holds the same uniforms keyed by program name.
	Named map[string][]float32

	Module  *hal.ShaderModuleDescriptor
	Layout  *hal.BindGroupLayoutDescriptor
	Sampler *hal.SamplerDescriptor
}

// Program returns the GPU program that evaluates the magnifier for ctx.
// The boolean result is false when there is nothing to draw or the inset
// is zero, in which case the backend should draw with a plain transform
// as Evaluate does.
func (f *Magnifier) Program(ctx Context) (Program, bool, error) {
	g, ok := f.geometry(ctx)
	if !ok {
		return Program{}, false, nil
	}
	inset := ctx.Mapping().ParamToLayerSize(Size{W: f.inset, H: f.inset})
	if inset.W <= 0 || inset.H <= 0 {
		return Program{}, false, nil
	}
	bounds, ok := g.lensBounds.RoundOut().Intersect(ctx.DesiredOutput())
	if !ok {
		return Program{}, false, nil
	}

	u, err := g.uniforms(inset)
	if err != nil {
		return Program{}, false, err
	}
	module, err := shader.ShaderModule()
	if err != nil {
		return Program{}, false, fmt.Errorf("imgfx: magnifier program: %w", err)
	}
	linear, mipmap := f.sampling.gpuFilterModes()
	return Program{
		Bounds:      bounds,
		InputBounds: g.visibleLens.RoundOut(),
		Uniforms:    u.Bytes(),
		Named:       u.Named(),
		Module:      module,
		Layout:      shader.BindGroupLayout(),
		Sampler:     shader.Sampler(linear, mipmap),
	}, true, nil
}

// gpuFilterModes maps the policy onto fixed-function sampling. Cubic
// filters have no fixed-function equivalent and fall back to linear.
func (s Sampling) gpuFilterModes() (bool, gputypes.FilterMode) {
	linear := s.UseCubic || s.Filter == FilterLinear
	mipmap := gputypes.FilterModeNearest
	if s.Mipmap == MipmapLinear {
		mipmap = gputypes.FilterModeLinear
	}
	return linear, mipmap
}

// Flatten implements Filter.
func (f *Magnifier) Flatten(w *WriteBuffer) {
	w.writeInputs(f.input)
	w.WriteRect(f.lensBounds)
	w.WriteFloat32(f.zoomAmount)
	w.WriteFloat32(f.inset)
	w.WriteSampling(f.sampling)
}

// readMagnifier decodes a magnifier payload. Legacy payloads have a
// different layout and are dropped unread.
func readMagnifier(r *ReadBuffer) Filter {
	if r.IsVersionLT(VersionRevampMagnifier) {
		Logger().Warn("imgfx: dropping magnifier from legacy stream", "version", r.Version())
		return nil
	}
	inputs, ok := r.readInputs(1)
	if !ok {
		return nil
	}

	lens := r.ReadRect()
	zoom := r.ReadFloat32()
	inset := r.ReadFloat32()
	sampling := r.ReadSampling()
	if !r.IsValid() {
		return nil
	}
	if err := ValidateMagnifier(lens, zoom, inset); !r.Validate(err == nil) {
		return nil
	}
	return NewMagnifier(lens, zoom, inset, sampling, inputs[0], nil)
}
