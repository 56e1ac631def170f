// Package apperrors defines the closed set of application error codes shared
// by every Questify service. Services construct errors with New and a fixed
// code; transports translate them to HTTP responses at a single boundary
// (see httpjson.WriteError) instead of matching on concrete types.
package apperrors

import "errors"

// Code identifies an error kind. The set is closed; each code maps to
// exactly one HTTP status.
type Code string

const (
	CodeBadRequest    Code = "bad_request"
	CodeNotAuthorized Code = "not_authorized"
	CodeNotFound      Code = "not_found"
	CodeInternal      Code = "internal"
	CodeTimeout       Code = "timeout"
)

// Error is the tagged variant carried across service layers. Message is
// human-readable and safe to surface to clients.
type Error struct {
	Code    Code
	Message string

	cause error
}

// Detail is one entry of the serialized error body.
type Detail struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Serialize returns the ordered sequence of {message} records written to
// clients. It is never empty.
func (e *Error) Serialize() []Detail {
	return []Detail{{Message: e.Message}}
}

// New builds an error with an explicit code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadRequest builds a 400 error carrying the given message verbatim.
func BadRequest(message string) *Error {
	return New(CodeBadRequest, message)
}

// NotAuthorized builds the canonical 401 error.
func NotAuthorized() *Error {
	return New(CodeNotAuthorized, "Not authorized")
}

// NotFound builds the canonical 404 error.
func NotFound() *Error {
	return New(CodeNotFound, "Not Found")
}

// Wrap attaches a code and message to an underlying error. The cause is kept
// for logs via Unwrap but never serialized to clients.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus maps a code to its fixed HTTP status. Unknown codes collapse to
// 500 so transports never guess.
func HTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return 400
	case CodeNotAuthorized:
		return 401
	case CodeNotFound:
		return 404
	case CodeTimeout:
		return 504
	default:
		return 500
	}
}
