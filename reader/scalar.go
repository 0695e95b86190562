package reader

import (
	"strconv"
	"strings"
)

// Scalar reads a decimal number.
type Scalar struct{}

// ReadField implements FieldReader. The value is a float64.
func (Scalar) ReadField(data []byte) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
}

// Text reads raw UTF-8 text with surrounding whitespace removed.
type Text struct{}

// ReadField implements FieldReader. The value is a string.
func (Text) ReadField(data []byte) (any, error) {
	return strings.TrimSpace(string(data)), nil
}
