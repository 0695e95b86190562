package dataset

import (
	"context"
	"math"
)

// Well-known record fields.
const (
	FieldInput      = "input"
	FieldTarget     = "target"
	FieldInputSize  = "isz"
	FieldTargetSize = "tsz"
)

// Dataset is an indexable, fixed-size collection.
//
// Implementations must be safe for concurrent Get calls.
type Dataset[T any] interface {
	// Size returns the number of elements.
	Size() int
	// Get returns the element at index i, 0 <= i < Size().
	Get(ctx context.Context, i int) (T, error)
}

// Record maps field names to values.
type Record map[string]any

// Int returns field as an int. Integral floats are accepted.
func (r Record) Int(field string) (int, bool) {
	switch v := r[field].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// Input returns the input sequence.
func (r Record) Input() (*Sequence, bool) {
	s, ok := r[FieldInput].(*Sequence)
	return s, ok && s != nil
}

// Target returns the target label sequence.
func (r Record) Target() ([]int, bool) {
	t, ok := r[FieldTarget].([]int)
	return t, ok
}

// Sequence is a [Len, Channels] float32 matrix stored row-major.
type Sequence struct {
	Data     []float32
	Len      int
	Channels int
}

// NewSequence wraps data as a sequence with the given channel count.
// len(data) must be a multiple of channels.
func NewSequence(data []float32, channels int) *Sequence {
	if channels <= 0 {
		channels = 1
	}
	return &Sequence{Data: data, Len: len(data) / channels, Channels: channels}
}

// Frame returns row t.
func (s *Sequence) Frame(t int) []float32 {
	return s.Data[t*s.Channels : (t+1)*s.Channels]
}

// Tensor is a dense float32 buffer with a shape.
type Tensor struct {
	Data  []float32
	Shape []int
}

// At returns the element at the given coordinates.
func (t *Tensor) At(idx ...int) float32 {
	off := 0
	for d, i := range idx {
		off = off*t.Shape[d] + i
	}
	return t.Data[off]
}

// Batch is a group of examples merged for training.
type Batch struct {
	// Input has shape [batch, maxLen, channels], zero padded past Lengths[i].
	Input *Tensor
	// Lengths holds the true input length of every example.
	Lengths []int
	// Targets holds the per-example target sequences, unmerged.
	Targets [][]int
	// Fields holds every other record field, one entry per example.
	Fields map[string][]any
	// Indices are the upstream indices the batch was built from.
	Indices []int
}

// Len returns the number of examples in the batch.
func (b *Batch) Len() int {
	return len(b.Lengths)
}

// Slice is an in-memory Dataset.
type Slice[T any] []T

// FromSlice wraps items as a Dataset.
func FromSlice[T any](items []T) Slice[T] {
	return Slice[T](items)
}

// Size implements Dataset.
func (s Slice[T]) Size() int { return len(s) }

// Get implements Dataset.
func (s Slice[T]) Get(_ context.Context, i int) (T, error) {
	if i < 0 || i >= len(s) {
		var zero T
		return zero, &IndexOutOfRangeError{Index: i, Size: len(s)}
	}
	return s[i], nil
}

// Collect reads every element of ds in index order.
func Collect[T any](ctx context.Context, ds Dataset[T]) ([]T, error) {
	out := make([]T, ds.Size())
	for i := range out {
		v, err := ds.Get(ctx, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
