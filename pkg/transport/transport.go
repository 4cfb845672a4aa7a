// Package transport carries structure requests to the backend. The Store only
// depends on the Transport interface; HTTP is the net/http implementation and
// CatalogCache memoises field type catalogue reads.
package transport

import (
	"context"
	"errors"
	"net/url"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// DefaultPrefix is the path prefix of the structure API.
const DefaultPrefix = "/api/form-structure"

// Request is one call against the structure API. Path is relative to the API
// prefix. Data, when non-nil, is sent as the JSON body.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Data   any
}

// Response is a decoded 2xx reply.
type Response struct {
	Status int
	Body   structure.Envelope
}

// Transport performs requests. Implementations must return a *Error for
// non-2xx replies and an error matching context.Canceled when ctx is
// cancelled.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req Request) (Response, error)

// Do calls f.
func (f Func) Do(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// IsCanceled reports whether err stems from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
