package formatter

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/cbd/internal/errors"
	"github.com/mcncl/cbd/internal/models"
)

func pair(k, v models.Value) models.Pair {
	return models.Pair{Key: k, Value: v}
}

func TestFormat_Scalars(t *testing.T) {
	huge, _ := new(big.Int).SetString("-18446744073709551617", 10)

	tests := []struct {
		name     string
		value    models.Value
		expected string
	}{
		{"null", models.Null(), "null"},
		{"true", models.Bool(true), "true"},
		{"false", models.Bool(false), "false"},
		{"zero", models.Int(0), "0"},
		{"negative", models.Int(-42), "-42"},
		{"max uint64", models.Uint(math.MaxUint64), "18446744073709551615"},
		{"beyond native range", models.BigInt(huge), "-18446744073709551617"},
		{"integral float", models.Float(1.0), "1.0"},
		{"zero float", models.Float(0), "0.0"},
		{"negative zero", models.Float(math.Copysign(0, -1)), "-0.0"},
		{"fraction", models.Float(3.14), "3.14"},
		{"large float", models.Float(1e20), "100000000000000000000.0"},
		{"huge float", models.Float(1e21), "1e+21"},
		{"tiny float", models.Float(1e-7), "1e-7"},
		{"small float", models.Float(0.000001), "0.000001"},
		{"NaN", models.Float(math.NaN()), "null"},
		{"infinity", models.Float(math.Inf(1)), "null"},
		{"text", models.Text("hello"), `"hello"`},
		{"empty text", models.Text(""), `""`},
		{"bytes", models.Bytes([]byte{0, 1, 255}), "[0,1,255]"},
		{"empty bytes", models.Bytes(nil), "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderText(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat_Escaping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"line\nbreak\ttab\rcr", `"line\nbreak\ttab\rcr"`},
		{"\b\f", `"\b\f"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"<html> & co", `"<html> & co"`},
		{"é😀 ", "\"é😀 \""},
		{"/", `"/"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := RenderText(models.Text(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat_Containers(t *testing.T) {
	value := models.Array(
		models.Map(
			pair(models.Text("key1"), models.Text("value1")),
			pair(models.Text("key2"), models.Text("value2")),
		),
		models.Map(pair(models.Text("foo"), models.Text("bar"))),
		models.Bool(true),
		models.Bool(false),
		models.Int(0),
		models.Float(1.0),
	)

	got, err := NewFormatter().Format(value)
	require.NoError(t, err)
	assert.Equal(t, `[{"key1":"value1","key2":"value2"},{"foo":"bar"},true,false,0,1.0]`, got)
}

func TestFormat_EmptyContainers(t *testing.T) {
	got, err := RenderText(models.Map(pair(models.Text("a"), models.Array()), pair(models.Text("b"), models.Map())))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[],"b":{}}`, got)
}

func TestFormat_KeepsMapOrderAndDuplicates(t *testing.T) {
	got, err := RenderText(models.Map(
		pair(models.Text("z"), models.Int(1)),
		pair(models.Text("a"), models.Int(2)),
		pair(models.Int(1), models.Int(3)),
		pair(models.Text("1"), models.Int(4)),
	))
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"1":3,"1":4}`, got)
}

func TestFormat_ScalarKeysAreCoerced(t *testing.T) {
	got, err := RenderText(models.Map(
		pair(models.Int(5), models.Text("int")),
		pair(models.Int(-1), models.Text("negative")),
		pair(models.Bool(true), models.Text("bool")),
		pair(models.Float(1.5), models.Text("float")),
		pair(models.Float(2), models.Text("integral float")),
		pair(models.Null(), models.Text("null")),
		pair(models.Bytes([]byte{0xa1, 0x61}), models.Text("bytes")),
	))
	require.NoError(t, err)
	assert.Equal(t,
		`{"5":"int","-1":"negative","true":"bool","1.5":"float","2.0":"integral float","null":"null","oWE":"bytes"}`,
		got)
}

func TestFormat_NonScalarKeyFails(t *testing.T) {
	tests := []struct {
		name     string
		value    models.Value
		location string
	}{
		{
			name:     "array key at root",
			value:    models.Map(pair(models.Array(models.Int(1)), models.Int(2))),
			location: "array map key at ${0}",
		},
		{
			name: "map key nested",
			value: models.Array(
				models.Null(),
				models.Map(
					pair(models.Text("ok"), models.Int(1)),
					pair(models.Text("inner"), models.Map(pair(models.Map(), models.Int(2)))),
				),
			),
			location: "map map key at $[1].inner{0}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderText(tt.value)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, errors.UnrepresentableValue)
			assert.ErrorIs(t, err, errors.ErrNonScalarKey)
			assert.Contains(t, err.Error(), tt.location)
		})
	}
}

func TestKeyText(t *testing.T) {
	key, err := KeyText(models.Uint(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551615", key)

	_, err = KeyText(models.Array())
	assert.ErrorIs(t, err, errors.ErrNonScalarKey)
}

func TestFormat_IsDeterministic(t *testing.T) {
	value := models.Map(
		pair(models.Text("b"), models.Float(0.1)),
		pair(models.Text("a"), models.Bytes([]byte{1, 2})),
	)
	first, err := RenderText(value)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := RenderText(value)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
