package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure kind at the API boundary.
type Code string

const (
	// CodeInvalidInput rejects a malformed or invalid payload.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeUnauthorized means authentication is missing or failed.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeForbidden means the caller lacks permission for the action.
	CodeForbidden Code = "FORBIDDEN"

	// CodeNotFound means the requested resource does not exist.
	CodeNotFound Code = "NOT_FOUND"

	// CodeConflict means the request collides with existing state,
	// such as registering an email twice.
	CodeConflict Code = "CONFLICT"

	// CodeRateLimited means the caller exceeded a request quota and
	// should retry later.
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeUpstream means a dependency (LLM provider, disk) failed.
	CodeUpstream Code = "UPSTREAM"

	// CodeInternal is an unexpected failure; details stay server-side.
	CodeInternal Code = "INTERNAL"
)

// String returns the code string.
func (c Code) String() string {
	return string(c)
}

// httpStatus maps codes to HTTP status codes.
var httpStatus = map[Code]int{
	CodeInvalidInput: http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeUpstream:     http.StatusBadGateway,
	CodeInternal:     http.StatusInternalServerError,
}

// HTTPStatus returns the status for a code, defaulting to 500.
func (c Code) HTTPStatus() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded application error with an optional cause and
// key-value details for the API error envelope.
type Error struct {
	code    Code
	message string
	cause   error
	details map[string]string
}

var (
	_ error          = (*Error)(nil)
	_ json.Marshaler = (*Error)(nil)
)

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. Returns nil
// when err is nil. An already-coded err keeps its code.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		code = coded.code
	}
	return &Error{code: code, message: message, cause: err}
}

// WithDetail returns a copy carrying an extra key-value detail.
func (e *Error) WithDetail(key, value string) *Error {
	details := make(map[string]string, len(e.details)+1)
	for k, v := range e.details {
		details[k] = v
	}
	details[key] = value
	return &Error{code: e.code, message: e.message, cause: e.cause, details: details}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the client-facing message without the cause chain.
func (e *Error) Message() string {
	return e.message
}

// Details returns a copy of the error details.
func (e *Error) Details() map[string]string {
	if len(e.details) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// errorJSON is the wire shape used in API error envelopes.
type errorJSON struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MarshalJSON implements json.Marshaler. The cause never crosses the
// wire.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorJSON{
		Code:    e.code,
		Message: e.message,
		Details: e.details,
	})
}

// CodeOf extracts the code from an error chain, or CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeInternal
}

// HTTPStatus returns the HTTP status for any error.
func HTTPStatus(err error) int {
	return CodeOf(err).HTTPStatus()
}

// Is reports whether any error in the chain carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
