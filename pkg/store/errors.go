package store

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstruct/pkg/transport"
)

// GenericMessage is used when a failure carries no readable message.
const GenericMessage = "request failed"

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store: closed")
	// ErrTemplateScope is returned by clone/reset on the shared template.
	ErrTemplateScope = errors.New("store: operation requires a draft or project scope")
	// ErrNoScope is returned by Refetch before the first Load.
	ErrNoScope = errors.New("store: no scope loaded")
)

// Error wraps a failed load or mutation. Message is suitable for display.
type Error struct {
	Op      string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("store: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapError(op string, err error) *Error {
	out := &Error{Op: op, Message: GenericMessage, Err: err}
	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		out.Status = transportErr.Status
		if transportErr.Message != "" {
			out.Message = transportErr.Message
		}
		return out
	}
	if err != nil && err.Error() != "" {
		out.Message = err.Error()
	}
	return out
}
