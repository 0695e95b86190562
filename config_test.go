package seqdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/seqdata/codec"
	"github.com/hupe1980/seqdata/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	dict, err := dictionary.FromTokens("<s>", "a")
	require.NoError(t, err)

	require.NoError(t, DefaultConfig().Validate(dict))

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"input field", func(c *Config) { c.InputField = "" }, "input_field"},
		{"channels", func(c *Config) { c.Channels = 0 }, "channels"},
		{"shift", func(c *Config) { c.Shift = -1 }, "shift"},
		{"max input", func(c *Config) { c.MinInputSize, c.MaxInputSize = 10, 5 }, "max_input_size"},
		{"max target", func(c *Config) { c.MinTargetSize, c.MaxTargetSize = 3, 2 }, "max_target_size"},
		{"rep label", func(c *Config) { c.RepLabel = -2 }, "rep_label"},
		{"limit", func(c *Config) { c.Limit = -5 }, "limit"},
		{"workers", func(c *Config) { c.Workers = -3 }, "workers"},
		{"rank", func(c *Config) { c.WorldSize, c.Rank = 2, 3 }, "rank"},
		{"surround", func(c *Config) { c.SurroundLabel = "</s>" }, "surround_label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate(dict)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfig_ValidateWrapsCause(t *testing.T) {
	dict, err := dictionary.FromTokens("a")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Rank = 0
	var ire *InvalidRankError
	assert.ErrorAs(t, cfg.Validate(dict), &ire)

	cfg = DefaultConfig()
	cfg.SurroundLabel = "<s>"
	var ute *UnknownTokenError
	assert.ErrorAs(t, cfg.Validate(dict), &ute)

	assert.Error(t, DefaultConfig().Validate(nil))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data_dir": "train", "batch_size": 8, "shuffle": true}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "train", cfg.DataDir)
	assert.Equal(t, 8, cfg.BatchSize)
	assert.True(t, cfg.Shuffle)
	assert.Equal(t, "in", cfg.InputField)
	assert.Equal(t, -1, cfg.Limit)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseConfig_UnknownField(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		_, err := ParseConfig([]byte(`{"batchsize": 8}`), c)
		var ce *ConfigError
		assert.ErrorAs(t, err, &ce, c.Name())
	}
}

func TestConfig_LengthRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KernelWidth = 5
	cfg.DownsampleFactor = 4
	cfg.MaxInputSize = 100

	rule := cfg.LengthRule()
	assert.True(t, rule.Admit(13, 2))
	assert.False(t, rule.Admit(12, 2))
	assert.False(t, rule.Admit(101, 2))
}
