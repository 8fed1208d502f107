package imgfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// FilterFactory decodes one filter payload. It returns nil, after
// invalidating r, when the payload is malformed. Returning nil with r still
// valid means the payload decodes to no filter.
type FilterFactory func(r *ReadBuffer) Filter

var registry = struct {
	sync.RWMutex
	factories map[string]FilterFactory
}{factories: make(map[string]FilterFactory)}

var builtinsOnce sync.Once

func registerBuiltins() {
	registry.Lock()
	defer registry.Unlock()
	registry.factories[magnifierTypeName] = readMagnifier
	registry.factories[cropTypeName] = readCrop
}

// RegisterFilter makes a filter type decodable by Deserialize. Registering
// an existing name replaces its factory.
//
// RegisterFilter is safe for concurrent use.
func RegisterFilter(name string, factory FilterFactory) {
	if name == "" || factory == nil {
		panic("imgfx: RegisterFilter requires a name and a factory")
	}
	builtinsOnce.Do(registerBuiltins)

	registry.Lock()
	defer registry.Unlock()
	registry.factories[name] = factory
}

func lookupFilter(name string) (FilterFactory, bool) {
	builtinsOnce.Do(registerBuiltins)

	registry.RLock()
	defer registry.RUnlock()
	factory, ok := registry.factories[name]
	return factory, ok
}

// Serialize encodes f as a VersionCurrent stream.
func Serialize(f Filter) ([]byte, error) {
	if f == nil {
		return nil, errors.New("imgfx: cannot serialize a nil filter")
	}
	w := NewWriteBuffer()
	w.WriteFlattenable(f)
	return w.Bytes(), nil
}

// Deserialize decodes a stream produced by Serialize.
//
// A nil filter with a nil error means the stream is well formed but holds
// nothing that can be reconstructed, such as a magnifier from a
// VersionLegacyMagnifier stream.
func Deserialize(data []byte) (Filter, error) {
	if len(data) < headerSize || string(data[:len(streamMagic)]) != streamMagic {
		return nil, fmt.Errorf("%w: missing %q header", ErrMalformedStream, streamMagic)
	}
	version := binary.LittleEndian.Uint32(data[len(streamMagic):headerSize])
	if version == 0 || version > VersionCurrent {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	r := NewReadBuffer(data[headerSize:], version)
	f := r.ReadFilter()
	if !r.IsValid() {
		return nil, r.Err()
	}
	if r.off != len(r.data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedStream, len(r.data)-r.off)
	}
	return f, nil
}

