package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mcncl/cbd/internal/errors"
	"github.com/mcncl/cbd/internal/models"
)

// RenderBinary encodes v as a single CBOR data item. Arrays and maps use
// definite lengths and keep their element order. Any well-formed Value
// can be encoded; an error only reports a failure inside the encoder.
func RenderBinary(v models.Value) ([]byte, error) {
	out, err := appendValue(nil, v)
	if err != nil {
		return nil, errors.NewEncodeError("failed to encode CBOR", err)
	}
	return out, nil
}

func appendValue(dst []byte, v models.Value) ([]byte, error) {
	switch v.Kind() {
	case models.KindArray:
		items, _ := v.AsArray()
		dst = appendHead(dst, majorArray, uint64(len(items)))
		for i, item := range items {
			var err error
			if dst, err = appendValue(dst, item); err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
		}
		return dst, nil

	case models.KindMap:
		pairs, _ := v.AsMap()
		dst = appendHead(dst, majorMap, uint64(len(pairs)))
		for i, pair := range pairs {
			var err error
			if dst, err = appendValue(dst, pair.Key); err != nil {
				return nil, fmt.Errorf("map key %d: %w", i, err)
			}
			if dst, err = appendValue(dst, pair.Value); err != nil {
				return nil, fmt.Errorf("map value %d: %w", i, err)
			}
		}
		return dst, nil
	}

	leaf, err := encMode.Marshal(leafOf(v))
	if err != nil {
		return nil, err
	}
	return append(dst, leaf...), nil
}

// leafOf returns the Go value fxamacker/cbor encodes the way v should
// appear on the wire.
func leafOf(v models.Value) any {
	switch v.Kind() {
	case models.KindBool:
		b, _ := v.AsBool()
		return b
	case models.KindInteger:
		n, _ := v.AsInteger()
		switch {
		case n.IsUint64():
			return n.Uint64()
		case n.IsInt64():
			return n.Int64()
		default:
			return n
		}
	case models.KindFloat:
		f, _ := v.AsFloat()
		return f
	case models.KindText:
		s, _ := v.AsText()
		return s
	case models.KindBytes:
		b, _ := v.AsBytes()
		if b == nil {
			b = []byte{}
		}
		return b
	default:
		return nil
	}
}

// appendHead appends an initial byte and argument in the shortest form.
func appendHead(dst []byte, major byte, n uint64) []byte {
	initial := major << 5
	switch {
	case n < 24:
		return append(dst, initial|byte(n))
	case n <= math.MaxUint8:
		return append(dst, initial|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, initial|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, initial|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(dst, initial|27), n)
	}
}
