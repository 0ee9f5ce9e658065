package codec

import (
	stderrors "errors"
	"fmt"
	"io"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/mcncl/cbd/internal/errors"
	"github.com/mcncl/cbd/internal/models"
)

// CBOR major types (RFC 8949 §3.1).
const (
	majorUnsigned byte = iota
	majorNegative
	majorBytes
	majorText
	majorArray
	majorMap
	majorTag
	majorSimple
)

const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	breakByte       = 0xff

	tagPositiveBignum = 2
	tagNegativeBignum = 3
)

var bigOne = big.NewInt(1)

// head is a decoded initial byte plus its argument.
type head struct {
	major      byte
	info       byte
	arg        uint64
	size       int
	indefinite bool
}

func readHead(data []byte) (head, error) {
	if len(data) == 0 {
		return head{}, io.ErrUnexpectedEOF
	}
	h := head{major: data[0] >> 5, info: data[0] & 0x1f, size: 1}
	switch {
	case h.info < 24:
		h.arg = uint64(h.info)
	case h.info <= 27:
		n := 1 << (h.info - 24)
		if len(data) < 1+n {
			return head{}, io.ErrUnexpectedEOF
		}
		for _, b := range data[1 : 1+n] {
			h.arg = h.arg<<8 | uint64(b)
		}
		h.size += n
	case h.info == 31:
		h.indefinite = true
	default:
		return head{}, fmt.Errorf("reserved additional information %d in initial byte 0x%02x", h.info, data[0])
	}
	return h, nil
}

// ParseBinary decodes data, which must hold exactly one CBOR data item,
// into a Value.
func ParseBinary(data []byte) (models.Value, error) {
	if len(data) == 0 {
		return models.Value{}, errors.NewBinaryError("no CBOR data item found", errors.ErrEmptyInput)
	}
	if err := decMode.Wellformed(data); err != nil {
		var extra *cbor.ExtraneousDataError
		if stderrors.As(err, &extra) {
			return models.Value{}, errors.NewBinaryError(
				"data follows the top-level data item",
				fmt.Errorf("%w: %v", errors.ErrTrailingData, err),
			)
		}
		return models.Value{}, errors.NewBinaryError("malformed CBOR", err)
	}

	// Wellformed has checked there is exactly one item.
	value, _, err := decodeItem(data)
	if err != nil {
		return models.Value{}, errors.NewBinaryError("failed to parse CBOR", err)
	}
	return value, nil
}

// decodeItem decodes the data item at the start of data and returns the
// bytes that follow it.
func decodeItem(data []byte) (models.Value, []byte, error) {
	h, err := readHead(data)
	if err != nil {
		return models.Value{}, nil, err
	}

	switch h.major {
	case majorUnsigned:
		return models.Uint(h.arg), data[h.size:], nil

	case majorNegative:
		n := new(big.Int).SetUint64(h.arg)
		n.Neg(n).Sub(n, bigOne)
		return models.BigInt(n), data[h.size:], nil

	case majorBytes:
		var b []byte
		rest, err := decMode.UnmarshalFirst(data, &b)
		if err != nil {
			return models.Value{}, nil, err
		}
		return models.Bytes(b), rest, nil

	case majorText:
		var s string
		rest, err := decMode.UnmarshalFirst(data, &s)
		if err != nil {
			return models.Value{}, nil, err
		}
		return models.Text(s), rest, nil

	case majorArray:
		return decodeArray(h, data[h.size:])

	case majorMap:
		return decodeMap(h, data[h.size:])

	case majorTag:
		if h.arg == tagPositiveBignum || h.arg == tagNegativeBignum {
			var n big.Int
			rest, err := decMode.UnmarshalFirst(data, &n)
			if err != nil {
				return models.Value{}, nil, fmt.Errorf("bignum tag %d: %w", h.arg, err)
			}
			return models.BigInt(&n), rest, nil
		}
		// JSON has no tags; keep the content only.
		return decodeItem(data[h.size:])

	default:
		return decodeSimple(h, data)
	}
}

func decodeArray(h head, rest []byte) (models.Value, []byte, error) {
	items := make([]models.Value, 0, sizeHint(h, rest))
	for i := uint64(0); h.indefinite || i < h.arg; i++ {
		if h.indefinite {
			if len(rest) == 0 {
				return models.Value{}, nil, io.ErrUnexpectedEOF
			}
			if rest[0] == breakByte {
				rest = rest[1:]
				break
			}
		}
		item, next, err := decodeItem(rest)
		if err != nil {
			return models.Value{}, nil, fmt.Errorf("array element %d: %w", i, err)
		}
		items = append(items, item)
		rest = next
	}
	return models.Array(items...), rest, nil
}

func decodeMap(h head, rest []byte) (models.Value, []byte, error) {
	pairs := make([]models.Pair, 0, sizeHint(h, rest))
	for i := uint64(0); h.indefinite || i < h.arg; i++ {
		if h.indefinite {
			if len(rest) == 0 {
				return models.Value{}, nil, io.ErrUnexpectedEOF
			}
			if rest[0] == breakByte {
				rest = rest[1:]
				break
			}
		}
		key, next, err := decodeItem(rest)
		if err != nil {
			return models.Value{}, nil, fmt.Errorf("map key %d: %w", i, err)
		}
		value, next, err := decodeItem(next)
		if err != nil {
			return models.Value{}, nil, fmt.Errorf("map value %d: %w", i, err)
		}
		pairs = append(pairs, models.Pair{Key: key, Value: value})
		rest = next
	}
	return models.Map(pairs...), rest, nil
}

func decodeSimple(h head, data []byte) (models.Value, []byte, error) {
	switch {
	case h.indefinite:
		return models.Value{}, nil, fmt.Errorf("unexpected break byte")
	case h.info == simpleFalse:
		return models.Bool(false), data[h.size:], nil
	case h.info == simpleTrue:
		return models.Bool(true), data[h.size:], nil
	case h.info == simpleNull, h.info == simpleUndefined:
		return models.Null(), data[h.size:], nil
	case h.info >= 25 && h.info <= 27:
		var f float64
		rest, err := decMode.UnmarshalFirst(data, &f)
		if err != nil {
			return models.Value{}, nil, err
		}
		return models.Float(f), rest, nil
	default:
		// Unassigned simple values carry only their number.
		return models.Uint(h.arg), data[h.size:], nil
	}
}

// sizeHint bounds a declared element count by the bytes remaining, since
// every element takes at least one byte.
func sizeHint(h head, rest []byte) int {
	if h.indefinite || h.arg > uint64(len(rest)) {
		return 0
	}
	return int(h.arg)
}
