package transport

import (
	"errors"
	"fmt"
)

// Error is a non-2xx reply. Message is the server supplied error text or
// "API error: <status>" when the body carried none.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// StatusError builds an Error, falling back to the generic status message.
func StatusError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("API error: %d", status)
	}
	return &Error{Status: status, Message: message}
}

// StatusOf extracts the HTTP status of a transport error, or 0.
func StatusOf(err error) int {
	var target *Error
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}

var (
	// ErrBaseURL is returned by NewHTTP when the base URL cannot be parsed.
	ErrBaseURL = errors.New("transport: invalid base url")
	// ErrMethod is returned when a request carries no method.
	ErrMethod = errors.New("transport: method is required")
)
