// Package upstream holds types shared by the upstream API clients.
package upstream

import "fmt"

// Error represents a failed call to an upstream API: a transport failure, a
// timeout, or a non-success response. It is a recoverable fault: the dispatcher
// converts it into an isError tool result instead of a protocol-level error so
// the calling agent can continue the exchange.
type Error struct {
	// Message is the human-readable description of the failure, preferring
	// whatever detail the upstream surfaced.
	Message string

	Cause error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "upstream request failed"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error from an upstream failure. When msg is empty, the
// cause's message is used, falling back to a generic description.
func NewError(msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{Message: msg, Cause: cause}
}

// Errorf builds an Error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
