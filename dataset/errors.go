package dataset

import "fmt"

// InvalidRankError is returned by Partition when rank is outside [1, worldSize].
type InvalidRankError struct {
	Rank      int
	WorldSize int
}

func (e *InvalidRankError) Error() string {
	return fmt.Sprintf("invalid rank %d for world size %d", e.Rank, e.WorldSize)
}

// MalformedSizeRecordError is returned when a size record lacks a numeric field.
type MalformedSizeRecordError struct {
	Index int
	Field string
}

func (e *MalformedSizeRecordError) Error() string {
	return fmt.Sprintf("size record %d: missing or non-numeric %q", e.Index, e.Field)
}

// DatasetSizeMismatchError is returned when a data view and its size view disagree.
type DatasetSizeMismatchError struct {
	Data  int
	Sizes int
}

func (e *DatasetSizeMismatchError) Error() string {
	return fmt.Sprintf("dataset size mismatch: data has %d examples, sizes has %d", e.Data, e.Sizes)
}

// IndexOutOfRangeError is returned by Get for an index outside [0, Size()).
type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
}

// ChannelMismatchError is returned when examples of one batch have different channel counts.
type ChannelMismatchError struct {
	Index int
	Want  int
	Got   int
}

func (e *ChannelMismatchError) Error() string {
	return fmt.Sprintf("batch example %d has %d channels, expected %d", e.Index, e.Got, e.Want)
}

// MissingFieldError is returned when a record lacks a field a stage requires.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing field %q", e.Index, e.Field)
}

// MalformedSequenceError is returned when a sequence's length and channel
// count do not fit its data.
type MalformedSequenceError struct {
	Index    int
	Len      int
	Channels int
	Values   int
}

func (e *MalformedSequenceError) Error() string {
	return fmt.Sprintf("batch example %d: %d frames of %d channels exceed %d values", e.Index, e.Len, e.Channels, e.Values)
}
