package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// HTTP sends requests to <baseURL><prefix><path> with JSON bodies.
type HTTP struct {
	base    *url.URL
	prefix  string
	client  *http.Client
	timeout time.Duration
	headers http.Header
	logger  *slog.Logger
}

// HTTPOption customises an HTTP transport.
type HTTPOption func(*HTTP)

// WithHTTPClient supplies the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) HTTPOption {
	return func(h *HTTP) {
		h.prefix = "/" + strings.Trim(prefix, "/")
		if h.prefix == "/" {
			h.prefix = ""
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.timeout = timeout
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.headers.Add(key, value)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHTTP constructs an HTTP transport rooted at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}
	h := &HTTP{
		base:    base,
		prefix:  DefaultPrefix,
		client:  http.DefaultClient,
		headers: make(http.Header),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

var _ Transport = (*HTTP)(nil)

// Do implements Transport.
func (h *HTTP) Do(ctx context.Context, req Request) (Response, error) {
	if req.Method == "" {
		return Response{}, ErrMethod
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if h.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Data != nil {
		payload, err := json.Marshal(req.Data)
		if err != nil {
			return Response{}, fmt.Errorf("transport: encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	target := h.resolve(req)
	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, target, body)
	if err != nil {
		return Response{}, fmt.Errorf("transport: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range h.headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("transport: %s %s: %w", req.Method, req.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("transport: read response: %w", err)
	}
	h.logger.Debug("structure request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	var envelope structure.Envelope
	decodeErr := decodeEnvelope(data, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if decodeErr == nil {
			message = envelope.Error
		}
		return Response{}, StatusError(resp.StatusCode, message)
	}
	if decodeErr != nil {
		return Response{}, fmt.Errorf("transport: decode response: %w", decodeErr)
	}
	return Response{Status: resp.StatusCode, Body: envelope}, nil
}

func (h *HTTP) resolve(req Request) string {
	u := *h.base
	path := req.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Paths arrive already escaped.
	escaped := strings.TrimRight(u.EscapedPath(), "/") + h.prefix + path
	if unescaped, err := url.PathUnescape(escaped); err == nil {
		u.Path = unescaped
		u.RawPath = escaped
	} else {
		u.Path = escaped
		u.RawPath = ""
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String()
}

func decodeEnvelope(data []byte, out *structure.Envelope) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
