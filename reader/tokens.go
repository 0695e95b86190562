package reader

import (
	"slices"

	"github.com/hupe1980/seqdata/dictionary"
)

// Tokens reads whitespace-separated token sequences.
//
// With RepLabel > 0, runs of a repeated token are packed with repeat-count
// tokens (see dictionary.PackRepeats). A non-empty Surround token is then
// added at both ends.
type Tokens struct {
	Dict     *dictionary.Dictionary
	Surround string
	RepLabel int
}

// Decode returns the dictionary indices of the tokens in data.
func (t Tokens) Decode(data []byte) ([]int, error) {
	seq, err := t.Dict.EncodeString(string(data))
	if err != nil {
		return nil, err
	}
	if t.RepLabel > 0 {
		if seq, err = t.Dict.PackRepeats(seq, t.RepLabel); err != nil {
			return nil, err
		}
	}
	if t.Surround != "" {
		idx, err := t.Dict.Index(t.Surround)
		if err != nil {
			return nil, err
		}
		seq = slices.Concat([]int{idx}, seq, []int{idx})
	}
	return seq, nil
}

// ReadField implements FieldReader.
func (t Tokens) ReadField(data []byte) (any, error) {
	return t.Decode(data)
}

// Length returns the length of the decoded sequence.
func (t Tokens) Length(data []byte) (int, error) {
	seq, err := t.Decode(data)
	if err != nil {
		return 0, err
	}
	return len(seq), nil
}
