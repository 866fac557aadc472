// Package domainerrors defines coded errors shared between services and the
// HTTP transport. Services return these instead of raw storage errors so the
// transport can map outcomes to status codes without string matching.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeInvalidInput marks client-correctable validation failures.
	CodeInvalidInput Code = "invalid_input"
	// CodeRateLimited marks submissions rejected by the rate limiter.
	CodeRateLimited Code = "rate_limited"
	// CodeInternal marks server-side failures. The Message on an internal
	// error must be safe to return to callers; the cause stays in logs.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a caller-safe message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New builds a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a domain error around an underlying cause. The cause is
// reachable via errors.Unwrap but never included in Message.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the domain code from an error chain.
// Unrecognized errors are treated as internal.
func CodeOf(err error) Code {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
