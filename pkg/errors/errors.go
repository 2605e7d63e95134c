// Package errors provides coded errors for skillflow.
//
// Errors that cross a package boundary carry a [Code]. The editor turns
// them into notices, the HTTP server into status codes via
// [Code.HTTPStatus], and the CLI prints [UserMessage] and exits 1.
//
//	err := errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidKind) {
//	    // leave the project unchanged
//	}
//
//	err = errors.Wrap(errors.ErrCodeSinkFailed, cause, "deliver %s", name)
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	// Rejected input. The project is left unchanged.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidKind     Code = "INVALID_KIND"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidName     Code = "INVALID_NAME"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	ErrCodeNotFound Code = "NOT_FOUND"

	// The environment cannot produce the requested output (no fonts,
	// no graphviz). The export is aborted.
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeSinkFailed  Code = "SINK_FAILED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// HTTPStatus maps c to the status the export API answers with.
func (c Code) HTTPStatus() int {
	switch {
	case c.Invalid():
		return http.StatusBadRequest
	case c == ErrCodeNotFound:
		return http.StatusNotFound
	case c == ErrCodeUnsupported:
		return http.StatusNotImplemented
	case c == ErrCodeSinkFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// for uncoded errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message without the code prefix. Uncoded
// errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
