// Package codec converts between CBOR bytes and models.Value.
//
// Well-formedness checking and leaf decoding (strings, floats, bignums)
// are delegated to fxamacker/cbor. Arrays and maps are walked here so
// that map entry order and non-text keys survive the conversion, which
// Go map types cannot represent.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode encodes leaves: floats in the shortest width that preserves
// the value, integers in their smallest head, big integers outside the
// native range as bignum tags.
var encMode cbor.EncMode

// diagMode renders diagnostic notation with the same limits as decMode.
var diagMode cbor.DiagMode

// decMode accepts any well-formed CBOR. Size and nesting limits are
// raised to their maximums so only the input length bounds a value.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		ShortestFloat: cbor.ShortestFloat16,
		NaNConvert:    cbor.NaNConvert7e00,
		InfConvert:    cbor.InfConvertFloat16,
		BigIntConvert: cbor.BigIntConvertShortest,
		IndefLength:   cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyQuiet,
		MaxNestedLevels:  65535,
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
		IndefLength:      cbor.IndefLengthAllowed,
		TagsMd:           cbor.TagsAllowed,
		UTF8:             cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	diagMode, err = cbor.DiagOptions{
		MaxNestedLevels:  65535,
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DiagMode()
	if err != nil {
		panic("codec: CBOR diagnostic mode initialization failed: " + err.Error())
	}
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// single data item in data.
func Diagnose(data []byte) (string, error) {
	return diagMode.Diagnose(data)
}
