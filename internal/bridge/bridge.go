// Package bridge wires the sniffer, the CBOR codec, the JSON parser and
// the JSON formatter into the two conversion pipelines.
//
// Each call builds its own Value tree and returns either a complete
// output or an error; there is no partial output and no shared state.
package bridge

import (
	"github.com/mcncl/cbd/internal/codec"
	"github.com/mcncl/cbd/internal/errors"
	"github.com/mcncl/cbd/internal/formatter"
	"github.com/mcncl/cbd/internal/parser"
	"github.com/mcncl/cbd/internal/sniffer"
)

// Result is the outcome of a decode along with what was detected on the
// way, for callers that want to report it.
type Result struct {
	JSON    string
	Variant sniffer.Variant
	CBOR    []byte
}

// Decode converts CBOR, raw or base64 wrapped, into compact JSON.
func Decode(input []byte) (string, error) {
	result, err := DecodeDetailed(input)
	if err != nil {
		return "", err
	}
	return result.JSON, nil
}

// DecodeDetailed is Decode that also reports the base64 variant that
// matched and the CBOR bytes that were parsed.
func DecodeDetailed(input []byte) (Result, error) {
	resolved := sniffer.Resolve(input)

	value, err := codec.ParseBinary(resolved.Data)
	if err != nil {
		return Result{}, errors.NewDecodeError("failed to decode binary data", err)
	}

	text, err := formatter.RenderText(value)
	if err != nil {
		return Result{}, errors.NewDecodeError("failed to decode binary data", err)
	}

	return Result{JSON: text, Variant: resolved.Variant, CBOR: resolved.Data}, nil
}

// Encode converts JSON text into CBOR. Surrounding whitespace is
// ignored. When wrap is set the CBOR is returned as URL-safe base64
// without padding.
func Encode(input []byte, wrap bool) ([]byte, error) {
	value, err := parser.ParseString(string(input))
	if err != nil {
		return nil, errors.NewEncodeError("failed to encode JSON data", err)
	}

	cbor, err := codec.RenderBinary(value)
	if err != nil {
		return nil, errors.NewEncodeError("failed to encode JSON data", err)
	}

	if wrap {
		return []byte(sniffer.Encode(cbor)), nil
	}
	return cbor, nil
}

// EncodeString is Encode for text input.
func EncodeString(input string, wrap bool) ([]byte, error) {
	return Encode([]byte(input), wrap)
}
