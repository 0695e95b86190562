package seqdata

import (
	"fmt"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/dictionary"
	"github.com/hupe1980/seqdata/iterator"
	"github.com/hupe1980/seqdata/reader"
	"github.com/hupe1980/seqdata/source"
)

// ErrNotFound is returned when a blob does not exist.
var ErrNotFound = blobstore.ErrNotFound

// Errors raised by the pipeline stages, re-exported for errors.As.
type (
	DuplicateTokenError      = dictionary.DuplicateTokenError
	DuplicateIndexError      = dictionary.DuplicateIndexError
	UnknownTokenError        = dictionary.UnknownTokenError
	InvalidLineError         = dictionary.InvalidLineError
	InvalidRankError         = dataset.InvalidRankError
	MalformedSizeRecordError = dataset.MalformedSizeRecordError
	DatasetSizeMismatchError = dataset.DatasetSizeMismatchError
	IndexOutOfRangeError     = dataset.IndexOutOfRangeError
	ChannelMismatchError     = dataset.ChannelMismatchError
	MalformedSequenceError   = dataset.MalformedSequenceError
	WorkerConstructionError  = iterator.WorkerConstructionError
	MissingDirectoryError    = source.MissingDirectoryError
	MissingExampleError      = source.MissingExampleError
	DecodeError              = reader.DecodeError
)

// ConfigError indicates an invalid configuration value.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }
