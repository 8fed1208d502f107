package imgfx

import "context"

// Filter is a node in an image filter graph.
//
// A filter is immutable once constructed and may be evaluated concurrently
// from multiple goroutines. A nil Filter used as an input stands for the
// source image of the evaluation.
//
// Bounds queries never touch pixels:
//   - RequiredInput reports which layer-space region the filter needs from
//     its inputs to produce desiredOutput
//   - AvailableOutput reports where the filter can produce non-transparent
//     pixels given the source content bounds
type Filter interface {
	// RequiredInput returns the layer-space region of the source that must
	// be available to produce desiredOutput.
	RequiredInput(m Mapping, desiredOutput IRect, content Bounds) IRect

	// AvailableOutput returns the layer-space region the filter can draw
	// into, or Unbounded if it may affect any pixel.
	AvailableOutput(m Mapping, content Bounds) Bounds

	// Evaluate produces the filtered image for one context.
	Evaluate(ctx Context) FilterResult

	// FastBounds returns a cheap, conservative parameter-space bound of the
	// output when the source covers src.
	FastBounds(src Rect) Rect

	// Flatten writes the filter's persistent fields. The type name is
	// written by the caller.
	Flatten(w *WriteBuffer)

	// Capability returns the most complex mapping the filter supports.
	Capability() MatrixCapability

	// TypeName returns the name the filter is registered under for
	// deserialization.
	TypeName() string
}

// Context carries the per-evaluation state handed to Filter.Evaluate.
type Context struct {
	mapping       Mapping
	desiredOutput IRect
	source        FilterResult
	workers       int
	cancel        context.Context
}

// NewContext creates an evaluation context. source is the image a nil
// input resolves to; its layer bounds are the content bounds of the
// evaluation.
func NewContext(mapping Mapping, desiredOutput IRect, source FilterResult, opts ...ContextOption) Context {
	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return Context{
		mapping:       mapping,
		desiredOutput: desiredOutput,
		source:        source,
		workers:       o.workers,
		cancel:        o.cancel,
	}
}

// Mapping returns the coordinate mapping of the evaluation.
func (c Context) Mapping() Mapping {
	return c.mapping
}

// DesiredOutput returns the layer-space region the caller wants filled.
func (c Context) DesiredOutput() IRect {
	return c.desiredOutput
}

// Source returns the source image.
func (c Context) Source() FilterResult {
	return c.source
}

// ContentBounds returns the layer bounds of the source image.
func (c Context) ContentBounds() Bounds {
	return Bounded(c.source.LayerBounds())
}

// Workers returns the parallelism available to CPU raster work.
func (c Context) Workers() int {
	return c.workers
}

// Cancellation returns the context that interrupts CPU raster work.
func (c Context) Cancellation() context.Context {
	if c.cancel == nil {
		return context.Background()
	}
	return c.cancel
}

// WithNewDesiredOutput returns a copy of c requesting a different region,
// used when evaluating a child filter.
func (c Context) WithNewDesiredOutput(desiredOutput IRect) Context {
	c.desiredOutput = desiredOutput
	return c
}

// childInputBounds returns what child needs to produce desiredOutput. The
// source needs exactly the desired region.
func childInputBounds(child Filter, m Mapping, desiredOutput IRect, content Bounds) IRect {
	if child == nil {
		return desiredOutput
	}
	return child.RequiredInput(m, desiredOutput, content)
}

// childOutputBounds returns where child can produce pixels. The source
// covers exactly the content bounds.
func childOutputBounds(child Filter, m Mapping, content Bounds) Bounds {
	if child == nil {
		return content
	}
	return child.AvailableOutput(m, content)
}

// childOutput evaluates child, or returns the source for a nil child.
func childOutput(child Filter, ctx Context) FilterResult {
	if child == nil {
		return ctx.Source()
	}
	return child.Evaluate(ctx)
}

// childFastBounds returns the fast bounds of child, or src for a nil child.
func childFastBounds(child Filter, src Rect) Rect {
	if child == nil {
		return src
	}
	return child.FastBounds(src)
}
