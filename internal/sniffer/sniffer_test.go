package sniffer

import (
	"encoding/base64"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/cbd/internal/errors"
)

// cborSample is the CBOR encoding of {"k":"v"}.
var cborSample = []byte{0xa1, 0x61, 0x6b, 0x61, 0x76}

func TestResolve_RawCBOR(t *testing.T) {
	res := Resolve(cborSample)
	assert.Equal(t, VariantRaw, res.Variant)
	assert.Equal(t, cborSample, res.Data)
}

func TestResolve_EachVariant(t *testing.T) {
	encodings := map[Variant]*base64.Encoding{
		VariantURLSafeNoPad:  base64.RawURLEncoding,
		VariantStandard:      base64.StdEncoding,
		VariantURLSafe:       base64.URLEncoding,
		VariantStandardNoPad: base64.RawStdEncoding,
	}

	for variant, enc := range encodings {
		t.Run(variant.String(), func(t *testing.T) {
			encoded := enc.EncodeToString(cborSample)
			assert.Equal(t, cborSample, ResolveBinary([]byte(encoded)))
		})
	}
}

func TestResolve_RoundTripsArbitraryBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
	}

	for size := 0; size < 64; size++ {
		data := make([]byte, size)
		_, _ = rng.Read(data)
		for i, enc := range encodings {
			encoded := enc.EncodeToString(data)
			got := ResolveBinary([]byte(encoded))
			require.Equal(t, data, got, "size %d encoding %d (%q)", size, i, encoded)
		}
	}
}

func TestResolve_PicksFirstVariantInPriorityOrder(t *testing.T) {
	// "AAAA" is valid under every variant; the URL-safe unpadded
	// decoder is tried first.
	res := Resolve([]byte("AAAA"))
	assert.Equal(t, VariantURLSafeNoPad, res.Variant)
	assert.Equal(t, []byte{0, 0, 0}, res.Data)

	// Padding rules out the unpadded variants.
	res = Resolve([]byte("AA=="))
	assert.Equal(t, VariantStandard, res.Variant)
	assert.Equal(t, []byte{0}, res.Data)

	// '-' is URL-safe only, and padding skips the unpadded decoder.
	res = Resolve([]byte("-A=="))
	assert.Equal(t, VariantURLSafe, res.Variant)

	// '+' is standard only, and the missing padding skips the padded decoder.
	res = Resolve([]byte("+A"))
	assert.Equal(t, VariantStandardNoPad, res.Variant)
}

func TestResolve_TrimsTrailingWhitespace(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(cborSample) + "\n \t\r\n"
	assert.Equal(t, cborSample, ResolveBinary([]byte(encoded)))
}

func TestResolve_LeadingWhitespaceIsNotTrimmed(t *testing.T) {
	input := []byte(" " + base64.StdEncoding.EncodeToString(cborSample))
	res := Resolve(input)
	assert.Equal(t, VariantRaw, res.Variant)
	assert.Equal(t, input, res.Data)
}

func TestResolve_InvalidUTF8FallsBack(t *testing.T) {
	input := []byte{0xff, 0xfe, 0x41, 0x41}
	res := Resolve(input)
	assert.Equal(t, VariantRaw, res.Variant)
	assert.Equal(t, input, res.Data)
}

func TestResolve_TextThatIsNotBase64FallsBack(t *testing.T) {
	input := []byte(`{"k":"v"}`)
	res := Resolve(input)
	assert.Equal(t, VariantRaw, res.Variant)
	assert.Equal(t, input, res.Data)
}

func TestResolve_EmbeddedLineBreaksFallBack(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		// text(3) "A\nA" is itself valid CBOR
		{"raw text item", []byte("cA\nA")},
		{"wrapped base64", []byte("oWFr\nYXY")},
		{"carriage return", []byte("oWFr\rYXY")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.input)
			assert.Equal(t, VariantRaw, res.Variant)
			assert.Equal(t, tt.input, res.Data)
		})
	}
}

func TestDecodeBase64_RejectsLineBreaks(t *testing.T) {
	_, _, err := decodeBase64("oWFr\nYXY")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.Base64Invalid)
	assert.ErrorIs(t, err, errors.ErrNoBase64Variant)
}

func TestResolve_EmptyInput(t *testing.T) {
	res := Resolve([]byte{})
	assert.Equal(t, VariantURLSafeNoPad, res.Variant)
	assert.Empty(t, res.Data)
}

func TestResolve_IsDeterministic(t *testing.T) {
	input := []byte(base64.URLEncoding.EncodeToString([]byte{0xfb, 0xff, 0x01}))
	first := Resolve(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(input))
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "oWFrYXY", Encode(cborSample))
	assert.Equal(t, "", Encode(nil))
	assert.Equal(t, cborSample, ResolveBinary([]byte(Encode(cborSample))))
}

func TestVariants_Order(t *testing.T) {
	assert.Equal(t, []Variant{
		VariantURLSafeNoPad,
		VariantStandard,
		VariantURLSafe,
		VariantStandardNoPad,
	}, Variants())
	assert.Nil(t, VariantRaw.Encoding())
	assert.Equal(t, "raw", VariantRaw.String())
}
