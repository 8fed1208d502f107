package imgfx

import (
	"image"
	"math"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestNewMagnifierRejectsInvalidArguments(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	lens := MakeLTRB(0, 0, 100, 100)

	tests := []struct {
		name  string
		lens  Rect
		zoom  float32
		inset float32
	}{
		{"empty lens", MakeLTRB(10, 10, 10, 50), 2, 0},
		{"inverted lens", MakeLTRB(50, 50, 10, 10), 2, 0},
		{"NaN lens", MakeLTRB(0, 0, nan, 10), 2, 0},
		{"infinite lens", MakeLTRB(0, 0, inf, 10), 2, 0},
		{"zero zoom", lens, 0, 0},
		{"negative zoom", lens, -2, 0},
		{"NaN zoom", lens, nan, 0},
		{"infinite zoom", lens, inf, 0},
		{"negative inset", lens, 2, -1},
		{"NaN inset", lens, 2, nan},
		{"infinite inset", lens, 2, inf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if f := NewMagnifier(tt.lens, tt.zoom, tt.inset, SamplingLinear, nil, nil); f != nil {
				t.Errorf("NewMagnifier() = %T, want nil", f)
			}
			if err := ValidateMagnifier(tt.lens, tt.zoom, tt.inset); err == nil {
				t.Error("ValidateMagnifier() = nil, want error")
			}
		})
	}
}

func TestValidateMagnifierReportsEveryRule(t *testing.T) {
	err := ValidateMagnifier(MakeLTRB(0, 0, 0, 0), -1, -1)
	if got := len(multierr.Errors(err)); got != 3 {
		t.Fatalf("ValidateMagnifier() reported %d errors, want 3: %v", got, err)
	}
	for _, word := range []string{"lens", "zoom", "inset"} {
		if !strings.Contains(err.Error(), word) {
			t.Errorf("error %q does not mention %q", err, word)
		}
	}
}

func TestNewMagnifierPassThrough(t *testing.T) {
	lens := MakeLTRB(0, 0, 100, 100)
	input := NewCrop(MakeLTRB(0, 0, 50, 50), nil)

	if f := NewMagnifier(lens, 1, 10, SamplingLinear, input, nil); f != input {
		t.Errorf("zoom 1: NewMagnifier() = %v, want the input", f)
	}
	if f := NewMagnifier(lens, 0.5, 10, SamplingLinear, nil, nil); f != nil {
		t.Errorf("zoom 0.5 over the source: NewMagnifier() = %v, want nil", f)
	}

	crop := MakeLTRB(5, 5, 20, 20)
	f := NewMagnifier(lens, 1, 0, SamplingLinear, nil, &crop)
	c, ok := f.(*Crop)
	if !ok {
		t.Fatalf("zoom 1 with crop: NewMagnifier() = %T, want *Crop", f)
	}
	if c.Rect() != crop || c.Input() != nil {
		t.Errorf("crop = %v over %v, want %v over the source", c.Rect(), c.Input(), crop)
	}
}

func TestNewMagnifierWrapsInputInCrop(t *testing.T) {
	crop := MakeLTRB(0, 0, 150, 150)
	input := NewCrop(MakeLTRB(0, 0, 400, 400), nil)
	f := NewMagnifier(MakeLTRB(100, 100, 300, 300), 2, 10, SamplingMitchell, input, &crop)

	m, ok := f.(*Magnifier)
	if !ok {
		t.Fatalf("NewMagnifier() = %T, want *Magnifier", f)
	}
	c, ok := m.Input().(*Crop)
	if !ok {
		t.Fatalf("Input() = %T, want *Crop", m.Input())
	}
	if c.Rect() != crop || c.Input() != input {
		t.Errorf("crop wrapper = %v over %v, want %v over the original input", c.Rect(), c.Input(), crop)
	}
	if m.Sampling() != SamplingMitchell || m.ZoomAmount() != 2 || m.Inset() != 10 {
		t.Errorf("magnifier fields = %v %v %v", m.Sampling(), m.ZoomAmount(), m.Inset())
	}
}

func TestNewMagnifierRejectsInvalidCrop(t *testing.T) {
	crop := MakeLTRB(0, 0, float32(math.NaN()), 10)
	if f := NewMagnifier(MakeLTRB(0, 0, 100, 100), 2, 0, SamplingLinear, nil, &crop); f != nil {
		t.Errorf("NewMagnifier() = %T, want nil", f)
	}
}

func TestMagnifierRequiredInputIsWholeLens(t *testing.T) {
	m := newTestMagnifier(t, MakeLTRB(100.5, 100, 300, 299.5), 2, 0)
	content := Bounded(IRect{0, 0, 400, 400})
	want := IRect{100, 100, 300, 300}

	for _, desired := range []IRect{
		{0, 0, 400, 400},
		{150, 150, 160, 160},
		{500, 500, 600, 600},
	} {
		if got := m.RequiredInput(IdentityMapping(), desired, content); got != want {
			t.Errorf("RequiredInput(desired %v) = %v, want %v", desired, got, want)
		}
	}
}

func TestMagnifierRequiredInputThroughChild(t *testing.T) {
	crop := MakeLTRB(0, 0, 150, 150)
	f := NewMagnifier(MakeLTRB(100, 100, 300, 300), 2, 0, SamplingLinear, nil, &crop)

	got := f.RequiredInput(IdentityMapping(), IRect{0, 0, 400, 400}, Unbounded())
	if want := (IRect{100, 100, 150, 150}); got != want {
		t.Errorf("RequiredInput() = %v, want %v", got, want)
	}
}

func TestMagnifierAvailableOutput(t *testing.T) {
	m := newTestMagnifier(t, MakeLTRB(100, 100, 300, 300), 2, 0)
	lens := IRect{100, 100, 300, 300}

	tests := []struct {
		name    string
		content Bounds
		want    IRect
	}{
		{"unbounded", Unbounded(), lens},
		{"covers lens", Bounded(IRect{0, 0, 400, 400}), lens},
		{"partial", Bounded(IRect{0, 0, 150, 200}), IRect{100, 100, 150, 200}},
		{"disjoint", Bounded(IRect{500, 500, 600, 600}), IRect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := m.AvailableOutput(IdentityMapping(), tt.content)
			got, bounded := b.Rect()
			if !bounded {
				t.Fatal("AvailableOutput() is unbounded")
			}
			if got != tt.want {
				t.Errorf("AvailableOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMagnifierFastBounds(t *testing.T) {
	m := newTestMagnifier(t, MakeLTRB(100, 100, 300, 300), 2, 0)

	if got, want := m.FastBounds(MakeLTRB(0, 0, 150, 150)), MakeLTRB(100, 100, 150, 150); got != want {
		t.Errorf("FastBounds() = %v, want %v", got, want)
	}
	if got := m.FastBounds(MakeLTRB(400, 400, 500, 500)); !got.IsEmpty() {
		t.Errorf("FastBounds() = %v, want empty", got)
	}
}

func TestMagnifierCapability(t *testing.T) {
	m := newTestMagnifier(t, MakeLTRB(0, 0, 10, 10), 2, 0)
	if got := m.Capability(); got != CapabilityScaleTranslate {
		t.Errorf("Capability() = %v, want ScaleTranslate", got)
	}
}

// The lens [64,192) at 2x over a gradient shows source pixels [96,160):
// output pixel x samples source x/2 + 64.
func TestMagnifierEvaluateDirect(t *testing.T) {
	src := newGradient(image.Rect(0, 0, 256, 256))
	f := NewMagnifier(MakeLTRB(64, 64, 192, 192), 2, 0, SamplingNearest, nil, nil)

	out := evaluate(t, f, src, IRect{0, 0, 256, 256})
	if want := (IRect{64, 64, 192, 192}); out.LayerBounds() != want {
		t.Fatalf("LayerBounds() = %v, want %v", out.LayerBounds(), want)
	}

	img := out.Image()
	for _, p := range []image.Point{{64, 64}, {128, 128}, {191, 100}, {100, 191}} {
		c := img.RGBAAt(p.X, p.Y)
		wantR, wantG := uint8(p.X/2+64), uint8(p.Y/2+64)
		if c.R != wantR || c.G != wantG || c.A != 255 {
			t.Errorf("pixel %v = %v, want R=%d G=%d A=255", p, c, wantR, wantG)
		}
	}
}

func TestMagnifierEvaluateShader(t *testing.T) {
	src := newGradient(image.Rect(0, 0, 256, 256))
	f := NewMagnifier(MakeLTRB(64, 64, 192, 192), 2, 16, SamplingNearest, nil, nil)

	out := evaluate(t, f, src, IRect{0, 0, 256, 256})
	if want := (IRect{64, 64, 192, 192}); out.LayerBounds() != want {
		t.Fatalf("LayerBounds() = %v, want %v", out.LayerBounds(), want)
	}

	img := out.Image()
	tests := []struct {
		name string
		p    image.Point
		r, g uint8
	}{
		{"interior is fully zoomed", image.Pt(128, 128), 128, 128},
		{"interior off-center", image.Pt(112, 140), 120, 134},
		{"left edge is unzoomed", image.Pt(64, 128), 64, 128},
		{"top edge is unzoomed", image.Pt(128, 64), 128, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := img.RGBAAt(tt.p.X, tt.p.Y)
			if c.R != tt.r || c.G != tt.g {
				t.Errorf("pixel %v = %v, want R=%d G=%d", tt.p, c, tt.r, tt.g)
			}
		})
	}
}

func TestMagnifierEvaluateClipsToDesiredOutput(t *testing.T) {
	src := newGradient(image.Rect(0, 0, 256, 256))
	for _, inset := range []float32{0, 16} {
		f := NewMagnifier(MakeLTRB(64, 64, 192, 192), 2, inset, SamplingLinear, nil, nil)
		out := evaluate(t, f, src, IRect{0, 0, 128, 256})
		if want := (IRect{64, 64, 128, 192}); out.LayerBounds() != want {
			t.Errorf("inset %v: LayerBounds() = %v, want %v", inset, out.LayerBounds(), want)
		}
	}
}

func TestMagnifierEvaluateDirectAllocatesLensOnly(t *testing.T) {
	src := newGradient(image.Rect(0, 0, 2048, 2048))
	f := NewMagnifier(MakeLTRB(960, 960, 1088, 1088), 2, 0, SamplingNearest, nil, nil)
	desired := IRect{0, 0, 2048, 2048}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	out := evaluate(t, f, src, desired)
	runtime.ReadMemStats(&after)

	if want := (IRect{960, 960, 1088, 1088}); out.LayerBounds() != want {
		t.Fatalf("LayerBounds() = %v, want %v", out.LayerBounds(), want)
	}
	// A desired-size warp target alone would be 16 MiB.
	if n := after.TotalAlloc - before.TotalAlloc; n > 4<<20 {
		t.Errorf("Evaluate() allocated %d bytes, want the lens-sized image only", n)
	}
}

func TestMagnifierEvaluateEmpty(t *testing.T) {
	src := newGradient(image.Rect(0, 0, 256, 256))

	t.Run("lens outside desired output", func(t *testing.T) {
		f := NewMagnifier(MakeLTRB(64, 64, 192, 192), 2, 16, SamplingLinear, nil, nil)
		if out := evaluate(t, f, src, IRect{200, 200, 256, 256}); !out.IsEmpty() {
			t.Errorf("result bounds = %v, want empty", out.LayerBounds())
		}
	})
	t.Run("empty source", func(t *testing.T) {
		for _, inset := range []float32{0, 16} {
			f := NewMagnifier(MakeLTRB(64, 64, 192, 192), 2, inset, SamplingLinear, nil, nil)
			ctx := NewContext(IdentityMapping(), IRect{0, 0, 256, 256}, FilterResult{})
			if out := f.Evaluate(ctx); !out.IsEmpty() {
				t.Errorf("inset %v: result bounds = %v, want empty", inset, out.LayerBounds())
			}
		}
	})
}

func TestMagnifierEvaluateScaledMapping(t *testing.T) {
	src := newGradient(image.Rect(0, 0, 256, 256))
	want := evaluate(t, NewMagnifier(MakeLTRB(64, 64, 192, 192), 2, 16, SamplingNearest, nil, nil),
		src, IRect{0, 0, 256, 256})

	f := NewMagnifier(MakeLTRB(32, 32, 96, 96), 2, 8, SamplingNearest, nil, nil)
	ctx := NewContext(NewMapping(Scale(2, 2)), IRect{0, 0, 256, 256}, NewFilterResult(src))
	got := f.Evaluate(ctx)

	if got.LayerBounds() != want.LayerBounds() {
		t.Fatalf("LayerBounds() = %v, want %v", got.LayerBounds(), want.LayerBounds())
	}
	for y := 64; y < 192; y += 7 {
		for x := 64; x < 192; x += 7 {
			if g, w := got.Image().RGBAAt(x, y), want.Image().RGBAAt(x, y); g != w {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestMagnifierEvaluatePanicsOnRotation(t *testing.T) {
	f := newTestMagnifier(t, MakeLTRB(0, 0, 100, 100), 2, 0)
	ctx := NewContext(NewMapping(Rotate(0.5)), IRect{0, 0, 100, 100}, FilterResult{})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Evaluate() did not panic for a rotated mapping")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "ScaleTranslate") {
			t.Errorf("panic message %q does not name the required capability", msg)
		}
	}()
	f.Evaluate(ctx)
}

func TestMagnifierProgram(t *testing.T) {
	src := NewFilterResult(newGradient(image.Rect(0, 0, 256, 256)))
	f := newTestMagnifier(t, MakeLTRB(64, 64, 192, 192), 2, 16)

	p, ok, err := f.Program(NewContext(IdentityMapping(), IRect{0, 0, 128, 256}, src))
	if err != nil || !ok {
		t.Fatalf("Program() = %v, %v", ok, err)
	}
	if want := (IRect{64, 64, 128, 192}); p.Bounds != want {
		t.Errorf("Bounds = %v, want %v", p.Bounds, want)
	}
	if want := (IRect{64, 64, 128, 192}); p.InputBounds != want {
		t.Errorf("InputBounds = %v, want %v", p.InputBounds, want)
	}
	if len(p.Uniforms) != 48 {
		t.Errorf("len(Uniforms) = %d, want 48", len(p.Uniforms))
	}
	if got := p.Named["lensBounds"]; len(got) != 4 || got[0] != 64 || got[3] != 192 {
		t.Errorf("lensBounds = %v", got)
	}
	if got := p.Named["invInset"]; len(got) != 2 || got[0] != 1.0/16 {
		t.Errorf("invInset = %v", got)
	}
	if p.Module == nil || p.Layout == nil || p.Sampler == nil {
		t.Error("Program() is missing pipeline descriptors")
	}

	f = newTestMagnifier(t, MakeLTRB(64, 64, 192, 192), 2, 0)
	if _, ok, err := f.Program(NewContext(IdentityMapping(), IRect{0, 0, 256, 256}, src)); ok || err != nil {
		t.Errorf("zero inset: Program() = %v, %v; want false, nil", ok, err)
	}
}
