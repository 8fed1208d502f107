package imgfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Stream format versions.
const (
	// VersionLegacyMagnifier streams carry the magnifier's original
	// parameterization, which cannot be converted and decodes to nil.
	VersionLegacyMagnifier uint32 = 1

	// VersionRevampMagnifier streams carry lens bounds, zoom, inset and
	// sampling.
	VersionRevampMagnifier uint32 = 2

	// VersionCurrent is the version written by NewWriteBuffer.
	VersionCurrent = VersionRevampMagnifier
)

// streamMagic opens every serialized filter stream.
const streamMagic = "IMFX"

// headerSize is the size of the magic plus the version word.
const headerSize = 8

// Serialization errors.
var (
	// ErrMalformedStream is returned for truncated or inconsistent data.
	ErrMalformedStream = errors.New("imgfx: malformed filter stream")

	// ErrUnknownFilter is returned when a stream names an unregistered
	// filter type.
	ErrUnknownFilter = errors.New("imgfx: unknown filter type")

	// ErrUnsupportedVersion is returned for streams newer than
	// VersionCurrent.
	ErrUnsupportedVersion = errors.New("imgfx: unsupported stream version")
)

// WriteBuffer accumulates a little-endian, 4-byte aligned filter stream.
type WriteBuffer struct {
	buf     []byte
	version uint32
}

// NewWriteBuffer returns an empty buffer that writes VersionCurrent.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{version: VersionCurrent}
}

// SetVersion changes the version recorded in the stream header. Filters
// always write the current layout.
func (w *WriteBuffer) SetVersion(v uint32) {
	w.version = v
}

// Bytes returns the stream header followed by everything written so far.
func (w *WriteBuffer) Bytes() []byte {
	out := make([]byte, 0, headerSize+len(w.buf))
	out = append(out, streamMagic...)
	out = binary.LittleEndian.AppendUint32(out, w.version)
	return append(out, w.buf...)
}

// WriteUint32 appends v.
func (w *WriteBuffer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteInt32 appends v.
func (w *WriteBuffer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteBool appends v as a full word.
func (w *WriteBuffer) WriteBool(v bool) {
	if v {
		w.WriteUint32(1)
	} else {
		w.WriteUint32(0)
	}
}

// WriteFloat32 appends the IEEE 754 bits of v.
func (w *WriteBuffer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteRect appends left, top, right, bottom.
func (w *WriteBuffer) WriteRect(r Rect) {
	w.WriteFloat32(r.MinX)
	w.WriteFloat32(r.MinY)
	w.WriteFloat32(r.MaxX)
	w.WriteFloat32(r.MaxY)
}

// WriteString appends the length of s and its bytes, zero padded to a
// word boundary.
func (w *WriteBuffer) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
}

// WriteSampling appends a sampling policy.
func (w *WriteBuffer) WriteSampling(s Sampling) {
	w.WriteBool(s.UseCubic)
	if s.UseCubic {
		w.WriteFloat32(s.B)
		w.WriteFloat32(s.C)
		return
	}
	w.WriteUint32(uint32(s.Filter))
	w.WriteUint32(uint32(s.Mipmap))
}

// WriteFlattenable appends f as its type name followed by its length
// prefixed payload. A nil filter is written as an empty name.
func (w *WriteBuffer) WriteFlattenable(f Filter) {
	if f == nil {
		w.WriteString("")
		return
	}
	w.WriteString(f.TypeName())

	sizeAt := len(w.buf)
	w.WriteUint32(0)
	f.Flatten(w)
	binary.LittleEndian.PutUint32(w.buf[sizeAt:], uint32(len(w.buf)-sizeAt-4))
}

// writeInputs writes the fields shared by every filter: the input count
// and each input, with a presence flag.
func (w *WriteBuffer) writeInputs(inputs ...Filter) {
	w.WriteInt32(int32(len(inputs)))
	for _, in := range inputs {
		w.WriteBool(in != nil)
		if in != nil {
			w.WriteFlattenable(in)
		}
	}
}

// ReadBuffer decodes a filter stream body. Once any read fails the buffer
// becomes invalid and every later read returns a zero value.
type ReadBuffer struct {
	data    []byte
	off     int
	version uint32
	err     error
}

// NewReadBuffer reads body, the part of a stream after its header, as data
// of the given version. Version 0 means VersionCurrent.
func NewReadBuffer(body []byte, version uint32) *ReadBuffer {
	return &ReadBuffer{data: body, version: version}
}

// Version returns the stream version, 0 if unknown.
func (r *ReadBuffer) Version() uint32 {
	return r.version
}

// IsVersionLT reports whether the stream predates v. Streams of unknown
// version are treated as current.
func (r *ReadBuffer) IsVersionLT(v uint32) bool {
	return r.version > 0 && r.version < v
}

// IsValid reports whether every read so far succeeded.
func (r *ReadBuffer) IsValid() bool {
	return r.err == nil
}

// Err returns the first error encountered.
func (r *ReadBuffer) Err() error {
	return r.err
}

// Validate invalidates the buffer when ok is false. It returns the
// validity of the buffer.
func (r *ReadBuffer) Validate(ok bool) bool {
	if !ok {
		r.fail(ErrMalformedStream)
	}
	return r.IsValid()
}

func (r *ReadBuffer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.off = len(r.data)
}

func (r *ReadBuffer) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.fail(fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrMalformedStream, n, r.off, len(r.data)-r.off))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// ReadUint32 reads one word.
func (r *ReadBuffer) ReadUint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadInt32 reads one signed word.
func (r *ReadBuffer) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadBool reads a word that must be 0 or 1.
func (r *ReadBuffer) ReadBool() bool {
	v := r.ReadUint32()
	r.Validate(v <= 1)
	return v == 1
}

// ReadFloat32 reads an IEEE 754 word.
func (r *ReadBuffer) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

// ReadRect reads left, top, right, bottom.
func (r *ReadBuffer) ReadRect() Rect {
	return Rect{
		MinX: r.ReadFloat32(),
		MinY: r.ReadFloat32(),
		MaxX: r.ReadFloat32(),
		MaxY: r.ReadFloat32(),
	}
}

// ReadString reads a length-prefixed, word-padded string.
func (r *ReadBuffer) ReadString() string {
	n := int(r.ReadUint32())
	b := r.next(n)
	if b == nil {
		return ""
	}
	s := string(b)
	r.next((4 - n%4) % 4)
	return s
}

// ReadSampling reads a sampling policy and validates its fields.
func (r *ReadBuffer) ReadSampling() Sampling {
	var s Sampling
	s.UseCubic = r.ReadBool()
	if s.UseCubic {
		s.B = r.ReadFloat32()
		s.C = r.ReadFloat32()
	} else {
		filter, mipmap := r.ReadUint32(), r.ReadUint32()
		r.Validate(filter <= uint32(FilterLinear) && mipmap <= uint32(MipmapLinear))
		s.Filter, s.Mipmap = FilterMode(filter), MipmapMode(mipmap)
	}
	if !r.Validate(s.IsValid()) {
		return Sampling{}
	}
	return s
}

// ReadFilter reads a flattenable written by WriteFlattenable. A nil result
// with a valid buffer means the stream held nil or a filter that decodes
// to nothing.
func (r *ReadBuffer) ReadFilter() Filter {
	name := r.ReadString()
	if name == "" || !r.IsValid() {
		return nil
	}
	factory, ok := lookupFilter(name)
	if !ok {
		r.fail(fmt.Errorf("%w: %q", ErrUnknownFilter, name))
		return nil
	}

	size := int(r.ReadUint32())
	payload := r.next(size)
	if payload == nil && size > 0 {
		return nil
	}

	sub := &ReadBuffer{data: payload, version: r.version}
	f := factory(sub)
	switch {
	case sub.err != nil:
		r.fail(sub.err)
		return nil
	case f != nil && sub.off != len(sub.data):
		r.fail(fmt.Errorf("%w: %s left %d unread bytes", ErrMalformedStream, name, len(sub.data)-sub.off))
		return nil
	}
	return f
}

// readInputs reads the shared filter fields and checks the input count.
func (r *ReadBuffer) readInputs(expected int) ([]Filter, bool) {
	n := r.ReadInt32()
	if !r.Validate(int(n) == expected) {
		return nil, false
	}
	inputs := make([]Filter, n)
	for i := range inputs {
		if r.ReadBool() {
			inputs[i] = r.ReadFilter()
			// A present input must decode to a filter.
			if inputs[i] == nil && r.IsValid() {
				r.fail(fmt.Errorf("%w: input %d decoded to nothing", ErrMalformedStream, i))
			}
		}
	}
	return inputs, r.IsValid()
}
