package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sizeEntry struct {
	ISZ int `json:"isz"`
	TSZ int `json:"tsz"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	in := []sizeEntry{{ISZ: 120, TSZ: 14}, {ISZ: 98, TSZ: 9}}

	a, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	b, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	var out []sizeEntry
	require.NoError(t, GoJSON{}.Unmarshal(a, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalStrict(t *testing.T) {
	data := []byte(`{"isz": 3, "tsz": 1, "extra": true}`)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		var e sizeEntry
		require.NoError(t, c.Unmarshal(data, &e), c.Name())
		assert.Error(t, UnmarshalStrict(c, data, &e), c.Name())
	}

	var e sizeEntry
	require.NoError(t, UnmarshalStrict(nil, []byte(`{"isz": 3, "tsz": 1}`), &e))
	assert.Equal(t, sizeEntry{ISZ: 3, TSZ: 1}, e)
}

func TestMarshalIndent(t *testing.T) {
	out, err := GoJSON{}.MarshalIndent(sizeEntry{ISZ: 1, TSZ: 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"isz\": 1,\n  \"tsz\": 2\n}", string(out))
}
