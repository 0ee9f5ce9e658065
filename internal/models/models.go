package models

import (
	"bytes"
	"math"
	"math/big"
)

// Kind identifies which variant of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindBytes
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInteger: "integer",
	KindFloat:   "float",
	KindText:    "text",
	KindBytes:   "bytes",
	KindArray:   "array",
	KindMap:     "map",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether values of this kind have no children.
func (k Kind) IsScalar() bool {
	return k != KindArray && k != KindMap
}

// Value is the intermediate representation shared by the CBOR and JSON
// sides of a conversion. It is a closed tagged union: exactly one of the
// payload fields is meaningful, selected by kind.
//
// The zero Value is Null.
type Value struct {
	kind  Kind
	flag  bool
	num   *big.Int
	float float64
	text  string
	bytes []byte
	items []Value
	pairs []Pair
}

// Pair is a single map entry. Keys may be any Value.
type Pair struct {
	Key   Value
	Value Value
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInteger, num: big.NewInt(i)}
}

// Uint returns an integer value from an unsigned integer.
func Uint(u uint64) Value {
	return Value{kind: KindInteger, num: new(big.Int).SetUint64(u)}
}

// BigInt returns an integer value of arbitrary width. The argument is
// copied.
func BigInt(i *big.Int) Value {
	return Value{kind: KindInteger, num: new(big.Int).Set(i)}
}

// Float returns a double precision float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, float: f}
}

// Text returns a UTF-8 text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Bytes returns a byte string value. The argument is not copied.
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindBytes, bytes: b}
}

// Array returns an ordered sequence value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Map returns an ordered mapping value. Entries keep the given order and
// duplicate keys are retained.
func Map(pairs ...Pair) Value {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Value{kind: KindMap, pairs: pairs}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the kind name; it is meant for logs and test output.
func (v Value) String() string {
	return v.kind.String()
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// AsInteger returns a copy of the integer held by v.
func (v Value) AsInteger() (*big.Int, bool) {
	if v.kind != KindInteger {
		return nil, false
	}
	return new(big.Int).Set(v.num), true
}

func (v Value) AsFloat() (float64, bool) {
	return v.float, v.kind == KindFloat
}

func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) AsBytes() ([]byte, bool) {
	return v.bytes, v.kind == KindBytes
}

func (v Value) AsArray() ([]Value, bool) {
	return v.items, v.kind == KindArray
}

func (v Value) AsMap() ([]Pair, bool) {
	return v.pairs, v.kind == KindMap
}

// Len returns the number of elements of an array or entries of a map,
// the length of a text or byte string, and zero for other kinds.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindMap:
		return len(v.pairs)
	case KindText:
		return len(v.text)
	case KindBytes:
		return len(v.bytes)
	default:
		return 0
	}
}

// Equal reports whether v and other are structurally identical. Floats
// compare by bit pattern so NaN equals itself and 0.0 differs from -0.0.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.flag == other.flag
	case KindInteger:
		return v.num.Cmp(other.num) == 0
	case KindFloat:
		return math.Float64bits(v.float) == math.Float64bits(other.float)
	case KindText:
		return v.text == other.text
	case KindBytes:
		return bytes.Equal(v.bytes, other.bytes)
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.pairs) != len(other.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(other.pairs[i].Key) || !v.pairs[i].Value.Equal(other.pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Bounds of the integers CBOR encodes natively (major types 0 and 1).
var (
	MaxNativeInteger = new(big.Int).SetUint64(math.MaxUint64)
	MinNativeInteger = new(big.Int).Sub(new(big.Int).Neg(MaxNativeInteger), big.NewInt(1))
)

// InNativeRange reports whether i lies in [-2^64, 2^64-1].
func InNativeRange(i *big.Int) bool {
	return i.Cmp(MinNativeInteger) >= 0 && i.Cmp(MaxNativeInteger) <= 0
}
