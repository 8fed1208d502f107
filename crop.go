package imgfx

// cropTypeName is the registry name of the crop filter.
const cropTypeName = "imgfx.Crop"

// Crop restricts its input to a parameter-space rectangle. Pixels outside
// the rectangle are transparent.
type Crop struct {
	rect  Rect
	input Filter
}

// NewCrop creates a crop of input (nil for the source image) to rect.
// It returns nil if rect has non-finite or unsorted edges. A sorted but
// zero-area rect is valid and crops everything away.
func NewCrop(rect Rect, input Filter) Filter {
	if !validCropRect(rect) {
		Logger().Debug("imgfx: crop rejected", "rect", rect)
		return nil
	}
	return &Crop{rect: rect, input: input}
}

func validCropRect(r Rect) bool {
	return r.IsFinite() && r.MinX <= r.MaxX && r.MinY <= r.MaxY
}

// Rect returns the crop rectangle in parameter space.
func (f *Crop) Rect() Rect { return f.rect }

// Input returns the cropped filter, nil for the source image.
func (f *Crop) Input() Filter { return f.input }

// TypeName implements Filter.
func (f *Crop) TypeName() string { return cropTypeName }

// Capability implements Filter. The crop rectangle stays axis-aligned only
// under scale and translation.
func (f *Crop) Capability() MatrixCapability { return CapabilityScaleTranslate }

func (f *Crop) layerCrop(m Mapping) IRect {
	return m.ParamToLayerRect(f.rect).RoundOut()
}

// RequiredInput implements Filter.
func (f *Crop) RequiredInput(m Mapping, desiredOutput IRect, content Bounds) IRect {
	needed, ok := desiredOutput.Intersect(f.layerCrop(m))
	if !ok {
		return IRect{}
	}
	return childInputBounds(f.input, m, needed, content)
}

// AvailableOutput implements Filter.
func (f *Crop) AvailableOutput(m Mapping, content Bounds) Bounds {
	crop := f.layerCrop(m)
	child, bounded := childOutputBounds(f.input, m, content).Rect()
	if !bounded {
		return Bounded(crop)
	}
	out, ok := crop.Intersect(child)
	if !ok {
		return Bounded(IRect{})
	}
	return Bounded(out)
}

// Evaluate implements Filter.
func (f *Crop) Evaluate(ctx Context) FilterResult {
	crop := f.layerCrop(ctx.Mapping())
	desired, ok := ctx.DesiredOutput().Intersect(crop)
	if !ok {
		return FilterResult{}
	}
	return childOutput(f.input, ctx.WithNewDesiredOutput(desired)).ApplyCrop(ctx, crop)
}

// FastBounds implements Filter.
func (f *Crop) FastBounds(src Rect) Rect {
	out, _ := childFastBounds(f.input, src).Intersect(f.rect)
	return out
}

// Flatten implements Filter.
func (f *Crop) Flatten(w *WriteBuffer) {
	w.writeInputs(f.input)
	w.WriteRect(f.rect)
}

func readCrop(r *ReadBuffer) Filter {
	inputs, ok := r.readInputs(1)
	if !ok {
		return nil
	}
	rect := r.ReadRect()
	if !r.Validate(validCropRect(rect)) {
		return nil
	}
	return NewCrop(rect, inputs[0])
}
