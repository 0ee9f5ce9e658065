// Package sniffer decides whether input bytes are raw CBOR or a base64
// transport encoding of CBOR.
package sniffer

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcncl/cbd/internal/errors"
)

// Variant identifies the base64 alphabet and padding convention that
// matched an input, or VariantRaw when the input was taken as is.
type Variant int

const (
	VariantRaw Variant = iota
	VariantURLSafeNoPad
	VariantStandard
	VariantURLSafe
	VariantStandardNoPad
)

func (v Variant) String() string {
	switch v {
	case VariantURLSafeNoPad:
		return "url-safe-no-pad"
	case VariantStandard:
		return "standard"
	case VariantURLSafe:
		return "url-safe"
	case VariantStandardNoPad:
		return "standard-no-pad"
	default:
		return "raw"
	}
}

// Encoding returns the decoder for the variant, or nil for VariantRaw.
// Decoders are strict: non-zero trailing bits are rejected.
func (v Variant) Encoding() *base64.Encoding {
	switch v {
	case VariantURLSafeNoPad:
		return base64.RawURLEncoding.Strict()
	case VariantStandard:
		return base64.StdEncoding.Strict()
	case VariantURLSafe:
		return base64.URLEncoding.Strict()
	case VariantStandardNoPad:
		return base64.RawStdEncoding.Strict()
	default:
		return nil
	}
}

// priority is the order variants are tried in. Alphabets overlap, so the
// first variant that decodes wins.
var priority = []Variant{
	VariantURLSafeNoPad,
	VariantStandard,
	VariantURLSafe,
	VariantStandardNoPad,
}

// Variants returns the base64 variants in the order they are tried.
func Variants() []Variant {
	return append([]Variant(nil), priority...)
}

// Resolution is the outcome of sniffing an input buffer.
type Resolution struct {
	Data    []byte
	Variant Variant
}

// Resolve returns the CBOR bytes carried by input. Input that is UTF-8
// text and decodes under one of the base64 variants is unwrapped;
// anything else is returned unchanged. Resolve never fails: invalid
// input is left for the CBOR parser to reject.
func Resolve(input []byte) Resolution {
	text, err := utf8Text(input)
	if err != nil {
		return Resolution{Data: input, Variant: VariantRaw}
	}
	decoded, variant, err := decodeBase64(strings.TrimRightFunc(text, unicode.IsSpace))
	if err != nil {
		return Resolution{Data: input, Variant: VariantRaw}
	}
	return Resolution{Data: decoded, Variant: variant}
}

// ResolveBinary is Resolve without the variant.
func ResolveBinary(input []byte) []byte {
	return Resolve(input).Data
}

// Encode wraps data in the encode-mode transport form: URL-safe
// alphabet, no padding.
func Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func utf8Text(input []byte) (string, error) {
	if !utf8.Valid(input) {
		return "", errors.NewUTF8Error("failed to decode input as UTF-8", errors.ErrInvalidUTF8)
	}
	return string(input), nil
}

// decodeBase64 tries each variant in priority order. The decoders in
// encoding/base64 skip '\r' and '\n', so text containing either is
// rejected up front: line breaks are not part of any alphabet.
func decodeBase64(text string) ([]byte, Variant, error) {
	if strings.ContainsAny(text, "\r\n") {
		return nil, VariantRaw, errors.NewBase64Error("line break inside base64 text", errors.ErrNoBase64Variant)
	}
	for _, variant := range priority {
		if decoded, err := variant.Encoding().DecodeString(text); err == nil {
			return decoded, variant, nil
		}
	}
	return nil, VariantRaw, errors.NewBase64Error("failed to decode base64", errors.ErrNoBase64Variant)
}
