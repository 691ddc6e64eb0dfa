// Package apperr defines the closed error taxonomy shared by the domain
// engines and the request dispatcher. Every validation or lookup failure a
// client can trigger is one of these values; the dispatcher maps them to
// response codes exactly once.
package apperr

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the response code carried by err, or 500 when err is not
// part of the taxonomy.
func CodeOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return 500
}

// MessageOf returns the client-facing message for err. Errors outside the
// taxonomy collapse to a generic message so internals never leak.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}

// ClientCaused reports whether err belongs to the 4xx class. The dispatcher
// logs these at warning severity and everything else at error severity.
func ClientCaused(err error) bool {
	code := CodeOf(err)
	return code >= 400 && code < 500
}
