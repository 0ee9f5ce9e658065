package formatter

import (
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/cbd/internal/errors"
	"github.com/mcncl/cbd/internal/models"
)

// Formatter renders Values as compact JSON text
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// RenderText renders v as compact JSON using a default Formatter.
func RenderText(v models.Value) (string, error) {
	return NewFormatter().Format(v)
}

// Format renders v as JSON. Map keys that are not text are converted to
// their text form; a key that is itself an array or map cannot be, and is
// reported as an unrepresentable value. Nothing is returned on error.
func (f *Formatter) Format(v models.Value) (string, error) {
	out, err := f.appendValue(make([]byte, 0, 64), v)
	if err != nil {
		var keyErr *keyError
		if stderrors.As(err, &keyErr) {
			return "", errors.NewUnrepresentableError(
				fmt.Sprintf("%s map key at %s cannot be a JSON object key", keyErr.kind, keyErr.location()),
				errors.ErrNonScalarKey,
			)
		}
		return "", err
	}
	return string(out), nil
}

// keyError records where a non-scalar key was found. Path segments are
// collected innermost first while the recursion unwinds.
type keyError struct {
	kind     models.Kind
	segments []string
}

func (e *keyError) Error() string {
	return fmt.Sprintf("%s map key at %s", e.kind, e.location())
}

func (e *keyError) location() string {
	var b strings.Builder
	b.WriteString("$")
	for i := len(e.segments) - 1; i >= 0; i-- {
		b.WriteString(e.segments[i])
	}
	return b.String()
}

func within(err error, segment string) error {
	var keyErr *keyError
	if stderrors.As(err, &keyErr) {
		keyErr.segments = append(keyErr.segments, segment)
	}
	return err
}

func (f *Formatter) appendValue(dst []byte, v models.Value) ([]byte, error) {
	switch v.Kind() {
	case models.KindNull:
		return append(dst, "null"...), nil

	case models.KindBool:
		b, _ := v.AsBool()
		return strconv.AppendBool(dst, b), nil

	case models.KindInteger:
		n, _ := v.AsInteger()
		return n.Append(dst, 10), nil

	case models.KindFloat:
		x, _ := v.AsFloat()
		return appendFloat(dst, x), nil

	case models.KindText:
		s, _ := v.AsText()
		return appendQuoted(dst, s), nil

	case models.KindBytes:
		// Byte strings have no JSON type; they become arrays of octets.
		b, _ := v.AsBytes()
		dst = append(dst, '[')
		for i, octet := range b {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendUint(dst, uint64(octet), 10)
		}
		return append(dst, ']'), nil

	case models.KindArray:
		items, _ := v.AsArray()
		dst = append(dst, '[')
		for i, item := range items {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = f.appendValue(dst, item); err != nil {
				return nil, within(err, "["+strconv.Itoa(i)+"]")
			}
		}
		return append(dst, ']'), nil

	case models.KindMap:
		pairs, _ := v.AsMap()
		dst = append(dst, '{')
		for i, pair := range pairs {
			if i > 0 {
				dst = append(dst, ',')
			}
			key, err := KeyText(pair.Key)
			if err != nil {
				return nil, &keyError{kind: pair.Key.Kind(), segments: []string{"{" + strconv.Itoa(i) + "}"}}
			}
			dst = appendQuoted(dst, key)
			dst = append(dst, ':')
			if dst, err = f.appendValue(dst, pair.Value); err != nil {
				return nil, within(err, "."+key)
			}
		}
		return append(dst, '}'), nil
	}

	return nil, fmt.Errorf("unknown value kind %d", v.Kind())
}

// KeyText returns the object key used for a map key. Scalars get their
// canonical text form; arrays and maps have none.
func KeyText(k models.Value) (string, error) {
	switch k.Kind() {
	case models.KindText:
		s, _ := k.AsText()
		return s, nil
	case models.KindInteger:
		n, _ := k.AsInteger()
		return n.String(), nil
	case models.KindBool:
		b, _ := k.AsBool()
		return strconv.FormatBool(b), nil
	case models.KindFloat:
		x, _ := k.AsFloat()
		return string(appendFloat(nil, x)), nil
	case models.KindNull:
		return "null", nil
	case models.KindBytes:
		b, _ := k.AsBytes()
		return base64.RawURLEncoding.EncodeToString(b), nil
	default:
		return "", errors.ErrNonScalarKey
	}
}

// appendFloat writes the shortest decimal that reads back as x. The
// result always carries a fraction or exponent so it stays a float when
// parsed again. JSON has no literal for NaN or the infinities; they are
// written as null.
func appendFloat(dst []byte, x float64) []byte {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return append(dst, "null"...)
	}

	abs := math.Abs(x)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, x, format, -1, 64)

	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(dst)
		if n-start >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
		return dst
	}

	for _, c := range dst[start:] {
		if c == '.' {
			return dst
		}
	}
	return append(dst, ".0"...)
}

const hexDigits = "0123456789abcdef"

// appendQuoted writes s as a JSON string. Only the characters RFC 8259
// requires are escaped.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			i++
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
