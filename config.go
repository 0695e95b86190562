package seqdata

import (
	"fmt"
	"os"

	"github.com/hupe1980/seqdata/codec"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/dictionary"
)

// Config describes one training data pipeline.
type Config struct {
	// DataDir is the directory of the examples inside the store.
	DataDir     string `json:"data_dir"`
	InputField  string `json:"input_field"`
	TargetField string `json:"target_field"`
	// WordsField, when set, is read as text into Batch.Fields.
	WordsField string `json:"words_field,omitempty"`

	// SampleRate is informational; the pipeline does not resample audio.
	SampleRate int `json:"sample_rate"`
	Channels   int `json:"channels"`
	Shift      int `json:"shift"`

	MinInputSize  int `json:"min_input_size"`
	MaxInputSize  int `json:"max_input_size"`
	MinTargetSize int `json:"min_target_size"`
	MaxTargetSize int `json:"max_target_size"`
	// KernelWidth and DownsampleFactor describe the encoder; an example is
	// admitted only when isz >= KernelWidth + tsz*DownsampleFactor.
	KernelWidth      int `json:"kernel_width"`
	DownsampleFactor int `json:"downsample_factor"`

	BatchSize int `json:"batch_size"`
	// Resolution is the input length quantum for bucketing.
	Resolution int `json:"resolution"`

	SurroundLabel string `json:"surround_label,omitempty"`
	RepLabel      int    `json:"rep_label,omitempty"`

	WorldSize int `json:"world_size"`
	Rank      int `json:"rank"`

	Shuffle bool `json:"shuffle"`
	// Limit is the number of examples per epoch; -1 uses all admitted
	// examples. Without Shuffle, a Limit past the admitted count wraps
	// around; with Shuffle it is capped. With nothing admitted the epoch is
	// empty either way.
	Limit int    `json:"limit"`
	Seed  uint64 `json:"seed"`
	// ConsistentShuffle gives every worker the same permutation. By default
	// each worker shuffles independently.
	ConsistentShuffle bool `json:"consistent_shuffle"`

	// Workers is the number of parallel workers: 0 iterates in the caller's
	// goroutine, -1 uses one worker per physical core.
	Workers int `json:"workers"`

	MaxConcurrentReads int64 `json:"max_concurrent_reads,omitempty"`
	IOLimitBytesPerSec int64 `json:"io_limit_bytes_per_sec,omitempty"`
}

// DefaultConfig returns the defaults for 16 kHz single channel features with
// token targets.
func DefaultConfig() Config {
	return Config{
		InputField:       "in",
		TargetField:      "tgt",
		SampleRate:       16000,
		Channels:         1,
		KernelWidth:      1,
		DownsampleFactor: 1,
		BatchSize:        1,
		Resolution:       1,
		WorldSize:        1,
		Rank:             1,
		Limit:            -1,
	}
}

// LoadConfig reads a JSON config file over DefaultConfig. Unknown fields are
// rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, nil)
}

// ParseConfig decodes data over DefaultConfig with c (codec.Default when nil).
func ParseConfig(data []byte, c codec.Codec) (Config, error) {
	cfg := DefaultConfig()
	if err := codec.UnmarshalStrict(c, data, &cfg); err != nil {
		return Config{}, &ConfigError{Field: "file", Reason: err.Error(), cause: err}
	}
	return cfg, nil
}

// Validate checks the configuration against dict.
func (c Config) Validate(dict *dictionary.Dictionary) error {
	switch {
	case c.InputField == "":
		return &ConfigError{Field: "input_field", Reason: "must not be empty"}
	case c.TargetField != "" && dict == nil:
		return &ConfigError{Field: "target_field", Reason: "requires a dictionary"}
	case c.Channels < 1:
		return &ConfigError{Field: "channels", Reason: "must be positive"}
	case c.Shift < 0:
		return &ConfigError{Field: "shift", Reason: "must not be negative"}
	case c.MinInputSize < 0 || c.MaxInputSize < 0 || c.MinTargetSize < 0 || c.MaxTargetSize < 0:
		return &ConfigError{Field: "size bounds", Reason: "must not be negative"}
	case c.MaxInputSize > 0 && c.MaxInputSize < c.MinInputSize:
		return &ConfigError{Field: "max_input_size", Reason: "below min_input_size"}
	case c.MaxTargetSize > 0 && c.MaxTargetSize < c.MinTargetSize:
		return &ConfigError{Field: "max_target_size", Reason: "below min_target_size"}
	case c.KernelWidth < 0 || c.DownsampleFactor < 0:
		return &ConfigError{Field: "kernel_width", Reason: "encoder geometry must not be negative"}
	case c.RepLabel < 0:
		return &ConfigError{Field: "rep_label", Reason: "must not be negative"}
	case c.Limit < -1:
		return &ConfigError{Field: "limit", Reason: "must be -1 or a size"}
	case c.Workers < -1:
		return &ConfigError{Field: "workers", Reason: "must be -1, 0 or positive"}
	}
	if c.WorldSize < 1 || c.Rank < 1 || c.Rank > c.WorldSize {
		return &ConfigError{
			Field:  "rank",
			Reason: fmt.Sprintf("%d not in [1, %d]", c.Rank, c.WorldSize),
			cause:  &dataset.InvalidRankError{Rank: c.Rank, WorldSize: c.WorldSize},
		}
	}
	if c.SurroundLabel != "" {
		if dict == nil {
			return &ConfigError{Field: "surround_label", Reason: "requires a dictionary"}
		}
		if _, err := dict.Index(c.SurroundLabel); err != nil {
			return &ConfigError{Field: "surround_label", Reason: fmt.Sprintf("%q is not in the dictionary", c.SurroundLabel), cause: err}
		}
	}
	return nil
}

// LengthRule returns the admissibility rule of the size filter.
func (c Config) LengthRule() dataset.LengthRule {
	return dataset.LengthRule{
		KernelWidth:      c.KernelWidth,
		DownsampleFactor: c.DownsampleFactor,
		MinInputSize:     c.MinInputSize,
		MaxInputSize:     c.MaxInputSize,
		MinTargetSize:    c.MinTargetSize,
		MaxTargetSize:    c.MaxTargetSize,
	}
}
