package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrTrailingData    = errors.New("unexpected data after the top-level value")
	ErrNonScalarKey    = errors.New("map key is an array or map and has no JSON string form")
	ErrInvalidUTF8     = errors.New("input is not valid UTF-8")
	ErrNoBase64Variant = errors.New("input does not decode under any supported base64 variant")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	// Kinds raised by the conversion core.
	ErrorTypeUTF8Invalid          ErrorType = "utf8_invalid"
	ErrorTypeBase64Invalid        ErrorType = "base64_invalid"
	ErrorTypeBinaryMalformed      ErrorType = "binary_malformed"
	ErrorTypeTextMalformed        ErrorType = "text_malformed"
	ErrorTypeUnrepresentableValue ErrorType = "unrepresentable_value"

	// Kinds raised at the pipeline and CLI boundary.
	ErrorTypeDecode  ErrorType = "decode"
	ErrorTypeEncode  ErrorType = "encode"
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Describe returns the message followed by the proximate cause, without
// the kind prefix.
func (e *AppError) Describe() string {
	if e.Err == nil {
		return e.Message
	}
	var inner *AppError
	if errors.As(e.Err, &inner) {
		return fmt.Sprintf("%s: %s", e.Message, inner.Describe())
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Cause returns the wrapped error, or nil.
func (e *AppError) Cause() error {
	return e.Err
}

// Kind sentinels for errors.Is. Only the Type is compared.
var (
	UTF8Invalid          = &AppError{Type: ErrorTypeUTF8Invalid}
	Base64Invalid        = &AppError{Type: ErrorTypeBase64Invalid}
	BinaryMalformed      = &AppError{Type: ErrorTypeBinaryMalformed}
	TextMalformed        = &AppError{Type: ErrorTypeTextMalformed}
	UnrepresentableValue = &AppError{Type: ErrorTypeUnrepresentableValue}
)

// KindOf returns the type of the outermost AppError in err's chain, or
// ErrorTypeUnknown.
func KindOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewUTF8Error creates an error for bytes that must be UTF-8 text but are not
func NewUTF8Error(message string, err error) *AppError {
	return newError(ErrorTypeUTF8Invalid, message, err)
}

// NewBase64Error creates an error for input no base64 variant accepts
func NewBase64Error(message string, err error) *AppError {
	return newError(ErrorTypeBase64Invalid, message, err)
}

// NewBinaryError creates an error for malformed CBOR
func NewBinaryError(message string, err error) *AppError {
	return newError(ErrorTypeBinaryMalformed, message, err)
}

// NewTextError creates an error for malformed JSON
func NewTextError(message string, err error) *AppError {
	return newError(ErrorTypeTextMalformed, message, err)
}

// NewUnrepresentableError creates an error for values JSON cannot express
func NewUnrepresentableError(message string, err error) *AppError {
	return newError(ErrorTypeUnrepresentableValue, message, err)
}

// NewDecodeError wraps any failure of the CBOR to JSON pipeline
func NewDecodeError(message string, err error) *AppError {
	return newError(ErrorTypeDecode, message, err)
}

// NewEncodeError wraps any failure of the JSON to CBOR pipeline
func NewEncodeError(message string, err error) *AppError {
	return newError(ErrorTypeEncode, message, err)
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Describe())
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Describe())
		case ErrorTypeBinaryMalformed:
			return fmt.Sprintf("CBOR error: %s", appErr.Describe())
		case ErrorTypeTextMalformed:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Describe())
		case ErrorTypeUnrepresentableValue:
			return fmt.Sprintf("Conversion error: %s", appErr.Describe())
		default:
			return fmt.Sprintf("Error: %s", appErr.Describe())
		}
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide CBOR or JSON data."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}
