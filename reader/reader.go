package reader

// FieldReader decodes one field blob into a record value.
type FieldReader interface {
	ReadField(data []byte) (any, error)
}

// LengthReader is implemented by readers whose values have a length that can
// be computed without building the value.
type LengthReader interface {
	FieldReader
	Length(data []byte) (int, error)
}

// Read decodes the blob name with r, wrapping failures in a DecodeError.
func Read(r FieldReader, name string, data []byte) (any, error) {
	v, err := r.ReadField(data)
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	return v, nil
}
