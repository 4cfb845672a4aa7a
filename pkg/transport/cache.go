package transport

import (
	"context"
	"fmt"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CatalogPath is the field type catalogue endpoint.
const CatalogPath = "/field-types"

// CatalogCache memoises successful catalogue reads. Every other request passes
// straight through to the wrapped transport.
type CatalogCache struct {
	next  Transport
	cache *lru.Cache[string, Response]
}

var _ Transport = (*CatalogCache)(nil)

// NewCatalogCache wraps next with an LRU holding up to size catalogue
// responses, keyed by path and query.
func NewCatalogCache(next Transport, size int) (*CatalogCache, error) {
	if next == nil {
		return nil, fmt.Errorf("transport: catalog cache requires a transport")
	}
	if size <= 0 {
		size = 8
	}
	cache, err := lru.New[string, Response](size)
	if err != nil {
		return nil, fmt.Errorf("transport: catalog cache: %w", err)
	}
	return &CatalogCache{next: next, cache: cache}, nil
}

// Do implements Transport.
func (c *CatalogCache) Do(ctx context.Context, req Request) (Response, error) {
	if req.Method != http.MethodGet || req.Path != CatalogPath {
		return c.next.Do(ctx, req)
	}
	key := req.Path + "?" + req.Query.Encode()
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}
	resp, err := c.next.Do(ctx, req)
	if err != nil {
		return Response{}, err
	}
	c.cache.Add(key, resp)
	return resp, nil
}

// Purge drops every cached catalogue.
func (c *CatalogCache) Purge() {
	c.cache.Purge()
}
