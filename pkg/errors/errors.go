// Package errors carries machine-readable codes on stitchgrid errors.
//
// The CLI prints [UserMessage] and the HTTP server maps the code to a status
// with [HTTPStatus]. The generation core never fails; codes come from option
// validation, the strict partition check, config loading and the storage
// backends. [Is] finds a code through fmt.Errorf %w wrapping:
//
//	err := errors.New(errors.ErrCodeInvalidParameters, "columns must be >= 2, got %d", n)
//	if errors.Is(fmt.Errorf("render: %w", err), errors.ErrCodeInvalidParameters) {
//	    // 400
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidParameters Code = "INVALID_PARAMETERS"
	ErrCodeInvalidPartition  Code = "INVALID_PARTITION"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message is shown to users; Cause may be nil.
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

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message and cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coded returns the outermost *Error in err's chain.
func coded(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := coded(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := coded(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without code or cause,
// and err.Error() for anything else.
func UserMessage(err error) string {
	if e, ok := coded(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps the code carried by err to an HTTP status.
// Errors without a code are internal server errors.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidParameters, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeInvalidPartition:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
