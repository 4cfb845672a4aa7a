// Package formstruct wires the structure API client stack: an HTTP transport
// with a cached field type catalogue, the Store and the builder Context.
package formstruct

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/renderers/html"
	"github.com/goliatone/go-formstruct/pkg/store"
	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

// Session is one connected client stack.
type Session struct {
	Transport transport.Transport
	Store     *store.Store
	Builder   *builder.Context

	catalog *transport.CatalogCache
}

type settings struct {
	prefix      string
	timeout     time.Duration
	client      *http.Client
	logger      *slog.Logger
	catalogSize int
}

// Option customises Connect.
type Option func(*settings)

// WithPrefix sets the API path prefix.
func WithPrefix(prefix string) Option {
	return func(s *settings) { s.prefix = prefix }
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) { s.timeout = timeout }
}

// WithHTTPClient supplies the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) { s.client = client }
}

// WithLogger sets the logger shared by every layer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalogCacheSize sets how many catalogue responses are memoised.
func WithCatalogCacheSize(size int) Option {
	return func(s *settings) { s.catalogSize = size }
}

// Connect builds a Session against baseURL. Nothing is loaded yet.
func Connect(baseURL string, opts ...Option) (*Session, error) {
	cfg := settings{
		prefix: transport.DefaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	httpOpts := []transport.HTTPOption{
		transport.WithPrefix(cfg.prefix),
		transport.WithTimeout(cfg.timeout),
		transport.WithLogger(cfg.logger),
	}
	if cfg.client != nil {
		httpOpts = append(httpOpts, transport.WithHTTPClient(cfg.client))
	}
	base, err := transport.NewHTTP(baseURL, httpOpts...)
	if err != nil {
		return nil, err
	}
	catalog, err := transport.NewCatalogCache(base, cfg.catalogSize)
	if err != nil {
		return nil, err
	}

	st := store.New(catalog, store.WithLogger(cfg.logger))
	b, err := builder.New(st, builder.WithLogger(cfg.logger))
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("formstruct: %w", err)
	}
	return &Session{Transport: catalog, Store: st, Builder: b, catalog: catalog}, nil
}

// Open connects and loads scope.
func Open(ctx context.Context, baseURL string, scope structure.Scope, opts ...Option) (*Session, error) {
	session, err := Connect(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	if err := session.Builder.Load(ctx, scope); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

// PurgeCatalog drops memoised catalogue responses so the next load fetches
// them again.
func (s *Session) PurgeCatalog() {
	if s.catalog != nil {
		s.catalog.Purge()
	}
}

// Close cancels outstanding loads.
func (s *Session) Close() {
	s.Store.Close()
}

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
