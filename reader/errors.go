package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrMisaligned is returned when a raw feature blob is not a whole number
	// of frames.
	ErrMisaligned = errors.New("feature data is not a multiple of the frame size")
	// ErrUnknownCompression is returned for an unsupported Compression value.
	ErrUnknownCompression = errors.New("unknown compression")
)

// DecodeError is returned when a field blob cannot be decoded.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
