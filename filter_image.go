package imgfx

import (
	"fmt"
	"image"

	fximage "github.com/gogpu/imgfx/internal/image"
)

// FilterImage evaluates f over src, whose bounds are its layer-space
// position. The output covers everything f can draw, or src's bounds when
// f is unbounded. A nil filter returns src unchanged.
//
// The layer matrix of mapping must be within f.Capability(); use
// DecomposeCTM to split a complex CTM. The caller applies
// mapping.DeviceMatrix() to the result.
func FilterImage(f Filter, src image.Image, mapping Mapping, opts ...ContextOption) (FilterResult, error) {
	var source FilterResult
	if src != nil {
		source = NewFilterResult(fximage.ToRGBA(src))
	}
	if f == nil {
		return source, nil
	}
	if c := f.Capability(); !c.Supports(mapping.LayerMatrix()) {
		return FilterResult{}, fmt.Errorf("imgfx: %s supports %v mappings, got %+v", f.TypeName(), c, mapping.LayerMatrix())
	}

	content := Bounded(source.LayerBounds())
	desired, bounded := f.AvailableOutput(mapping, content).Rect()
	if !bounded {
		desired = source.LayerBounds()
	}
	if desired.IsEmpty() {
		return FilterResult{}, nil
	}

	ctx := NewContext(mapping, desired, source, opts...)
	return f.Evaluate(ctx), nil
}
