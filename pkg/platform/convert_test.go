package platform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	a, err := ParseArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, a)

	a, err = ParseArgs(map[any]any{"text": "x", 3: "dropped"})
	require.NoError(t, err)
	assert.Equal(t, Args{"text": "x"}, a)

	_, err = ParseArgs("not a map")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestArgsInt64(t *testing.T) {
	tests := []struct {
		value any
		want  int64
		ok    bool
	}{
		{float64(7), 7, true},
		{float64(7.5), 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{int32(-3), -3, true},
		{uint64(math.MaxUint64), 0, false},
		{"7", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Args{"n": tt.value}.Int64("n")
		assert.Equal(t, tt.ok, ok, "value %v", tt.value)
		assert.Equal(t, tt.want, got, "value %v", tt.value)
	}

	_, ok := Args{}.Int64("n")
	assert.False(t, ok)
}

func TestArgsTypedAccessors(t *testing.T) {
	a := Args{
		"text":    "hi",
		"enabled": false,
		"hint":    nil,
		"params":  map[string]any{"k": 1},
		"num":     1.0,
	}

	s, ok := a.String("text")
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = a.String("num")
	assert.False(t, ok)

	b, ok := a.Bool("enabled")
	assert.True(t, ok)
	assert.False(t, b)

	assert.False(t, a.Has("hint"))
	assert.False(t, a.Has("missing"))

	m, ok := a.Map("params")
	assert.True(t, ok)
	assert.Equal(t, 1, m["k"])

	_, ok = a.Map("text")
	assert.False(t, ok)
}

func TestJsonCodecRoundTripsNil(t *testing.T) {
	v, err := JsonCodec{}.Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	data, err := JsonCodec{}.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var out struct{ Code string }
	require.NoError(t, JsonCodec{}.DecodeInto([]byte(`{"Code":"X"}`), &out))
	assert.Equal(t, "X", out.Code)
}
