package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	stderrors "errors"                     // Standard errors package
	"github.com/mcncl/cbd/internal/errors" // Custom errors package
	"github.com/mcncl/cbd/internal/models"
)

// Parse reads all JSON text from reader and converts the single value it
// holds into a Value.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read JSON input", err)
	}
	return ParseBytes(data)
}

// ParseText parses a JSON document held in a string.
func ParseText(text string) (models.Value, error) {
	return ParseBytes([]byte(text))
}

// ParseString parses JSON from a string after trimming surrounding
// whitespace.
func ParseString(jsonString string) (models.Value, error) {
	trimmed := strings.TrimSpace(jsonString)
	if trimmed == "" {
		return models.Value{}, errors.NewTextError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseText(trimmed)
}

// ParseBytes parses a JSON document. Object members keep their order;
// when a key repeats, the last value wins and stays at the position of
// the first occurrence.
func ParseBytes(data []byte) (models.Value, error) {
	if !utf8.Valid(data) {
		return models.Value{}, errors.NewTextError("JSON text is not valid UTF-8", errors.NewUTF8Error("invalid byte sequence", errors.ErrInvalidUTF8))
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Keep number literals so integers and floats can be told apart

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewTextError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Value{}, syntaxError(decoder, err)
	}

	value, err := parseValue(decoder, tok)
	if err != nil {
		return models.Value{}, syntaxError(decoder, err)
	}

	// Anything other than EOF after the first value is a second value or
	// garbage.
	if _, err := decoder.Token(); err == nil {
		return models.Value{}, errors.NewTextError("multiple JSON values found at the root", errors.ErrTrailingData)
	} else if !stderrors.Is(err, io.EOF) {
		return models.Value{}, errors.NewTextError("invalid trailing data after first JSON value", err)
	}

	return value, nil
}

func syntaxError(decoder *json.Decoder, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewTextError(fmt.Sprintf("JSON syntax error at offset %d", syntaxErr.Offset), err)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewTextError(fmt.Sprintf("unexpected end of JSON input at offset %d", decoder.InputOffset()), err)
	}
	return errors.NewTextError("failed to decode JSON", err)
}

// nextToken reads a token that must exist; running out of input inside a
// value is an error rather than a clean end of stream.
func nextToken(decoder *json.Decoder) (json.Token, error) {
	tok, err := decoder.Token()
	if stderrors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func parseValue(decoder *json.Decoder, tok json.Token) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(decoder)
		case '[':
			return parseArray(decoder)
		}
		return models.Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return models.Text(t), nil
	case json.Number:
		return parseNumber(t)
	case bool:
		return models.Bool(t), nil
	case nil:
		return models.Null(), nil
	}
	return models.Value{}, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(decoder *json.Decoder) (models.Value, error) {
	pairs := []models.Pair{}
	index := make(map[string]int)

	for decoder.More() {
		tok, err := nextToken(decoder)
		if err != nil {
			return models.Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key is %T, not a string", tok)
		}

		tok, err = nextToken(decoder)
		if err != nil {
			return models.Value{}, err
		}
		value, err := parseValue(decoder, tok)
		if err != nil {
			return models.Value{}, err
		}

		if i, seen := index[key]; seen {
			pairs[i].Value = value
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, models.Pair{Key: models.Text(key), Value: value})
	}

	if err := closing(decoder, '}'); err != nil {
		return models.Value{}, err
	}
	return models.Map(pairs...), nil
}

func parseArray(decoder *json.Decoder) (models.Value, error) {
	items := []models.Value{}
	for decoder.More() {
		tok, err := nextToken(decoder)
		if err != nil {
			return models.Value{}, err
		}
		item, err := parseValue(decoder, tok)
		if err != nil {
			return models.Value{}, err
		}
		items = append(items, item)
	}

	if err := closing(decoder, ']'); err != nil {
		return models.Value{}, err
	}
	return models.Array(items...), nil
}

func closing(decoder *json.Decoder, want json.Delim) error {
	tok, err := nextToken(decoder)
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %q, found %v", rune(want), tok)
	}
	return nil
}

// parseNumber maps a JSON number literal to a Value. Literals with a
// fraction or exponent become floats. Bare integers become integers when
// CBOR can encode them natively and floats otherwise, losing precision.
func parseNumber(n json.Number) (models.Value, error) {
	literal := n.String()

	if strings.ContainsAny(literal, ".eE") {
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return models.Value{}, errors.NewTextError(fmt.Sprintf("number %s is out of range", literal), err)
		}
		return models.Float(f), nil
	}

	i, ok := new(big.Int).SetString(literal, 10)
	if !ok {
		return models.Value{}, errors.NewTextError(fmt.Sprintf("invalid number %s", literal), nil)
	}
	if models.InNativeRange(i) {
		return models.BigInt(i), nil
	}

	f, _ := new(big.Float).SetInt(i).Float64()
	if math.IsInf(f, 0) {
		return models.Value{}, errors.NewTextError(fmt.Sprintf("number %s is out of range", literal), nil)
	}
	return models.Float(f), nil
}
