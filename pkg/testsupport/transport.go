package testsupport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

// Handler answers one scripted route.
type Handler func(ctx context.Context, req transport.Request) (transport.Response, error)

// Transport is a scripted transport.Transport keyed by "METHOD path". Routes
// without a handler fail with a 404 transport error. Every request is
// recorded.
type Transport struct {
	mu       sync.Mutex
	handlers map[string]Handler
	requests []transport.Request
}

var _ transport.Transport = (*Transport)(nil)

// NewTransport returns an empty scripted transport.
func NewTransport() *Transport {
	return &Transport{handlers: make(map[string]Handler)}
}

// On registers h for method and path, replacing any previous handler.
func (s *Transport) On(method, path string, h Handler) *Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method+" "+path] = h
	return s
}

// Reply registers a handler returning data in a success envelope.
func (s *Transport) Reply(method, path string, data any) *Transport {
	return s.On(method, path, func(context.Context, transport.Request) (transport.Response, error) {
		return OK(data), nil
	})
}

// Fail registers a handler returning a transport error.
func (s *Transport) Fail(method, path string, status int, message string) *Transport {
	return s.On(method, path, func(context.Context, transport.Request) (transport.Response, error) {
		return transport.Response{}, transport.StatusError(status, message)
	})
}

// Do implements transport.Transport.
func (s *Transport) Do(ctx context.Context, req transport.Request) (transport.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	h, ok := s.handlers[req.Method+" "+req.Path]
	s.mu.Unlock()
	if !ok {
		return transport.Response{}, transport.StatusError(http.StatusNotFound, "")
	}
	return h(ctx, req)
}

// Requests returns the recorded requests in arrival order.
func (s *Transport) Requests() []transport.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transport.Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests for one route.
func (s *Transport) RequestsTo(method, path string) []transport.Request {
	var out []transport.Request
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// OK wraps data in a success envelope.
func OK(data any) transport.Response {
	return transport.Response{Status: http.StatusOK, Body: Envelope(data)}
}

// Envelope builds a success envelope around data. Nil data leaves the data
// member empty.
func Envelope(data any) structure.Envelope {
	envelope := structure.Envelope{Success: true}
	if data == nil {
		return envelope
	}
	raw, err := json.Marshal(data)
	if err != nil {
		panic("testsupport: marshal envelope data: " + err.Error())
	}
	envelope.Data = raw
	return envelope
}

// Custom returns a handler replying with data and hasCustomStructure set.
func Custom(data any, custom bool) Handler {
	return func(context.Context, transport.Request) (transport.Response, error) {
		resp := OK(data)
		resp.Body.HasCustomStructure = custom
		return resp, nil
	}
}
