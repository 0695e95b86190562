// Package codec centralizes the encoding of configuration files and size
// manifests.
//
// Manifests record the name of the codec that wrote them, so a reader can
// pick the matching codec with ByName even after the default changes.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// StrictUnmarshaler is implemented by codecs that can reject unknown fields.
type StrictUnmarshaler interface {
	UnmarshalStrict(data []byte, v any) error
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// UnmarshalStrict decodes data rejecting unknown fields when c supports it,
// and falls back to c.Unmarshal otherwise.
func UnmarshalStrict(c Codec, data []byte, v any) error {
	if c == nil {
		c = Default
	}
	if s, ok := c.(StrictUnmarshaler); ok {
		return s.UnmarshalStrict(data, v)
	}
	return c.Unmarshal(data, v)
}
