package render

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry stores components by name. C is the renderer specific component
// type (an HTML writer, a prompt flow).
type Registry[C any] struct {
	mu         sync.RWMutex
	components map[string]C
	logger     *slog.Logger
}

// NewRegistry creates an empty registry logging through logger, or
// slog.Default() when nil.
func NewRegistry[C any](logger *slog.Logger) *Registry[C] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry[C]{
		components: make(map[string]C),
		logger:     logger,
	}
}

// Register adds a component. Duplicate names return an error.
func (r *Registry[C]) Register(name string, component C) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("render: component name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; exists {
		return fmt.Errorf("render: component %q already registered", name)
	}
	r.components[name] = component
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry[C]) MustRegister(name string, component C) {
	if err := r.Register(name, component); err != nil {
		panic(err)
	}
}

// Override registers component, replacing any existing entry.
func (r *Registry[C]) Override(name string, component C) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[strings.TrimSpace(name)] = component
}

// Get retrieves a component by name.
func (r *Registry[C]) Get(name string) (C, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	component, ok := r.components[name]
	return component, ok
}

// Has reports whether a component is registered.
func (r *Registry[C]) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns a sorted list of component names.
func (r *Registry[C]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy so callers can override entries locally.
func (r *Registry[C]) Clone() *Registry[C] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry[C](r.logger)
	for name, component := range r.components {
		cloned.components[name] = component
	}
	return cloned
}

// Resolve dispatches fieldType and returns the registered component when the
// descriptor names one. ok is false for inline and fallback rendering.
func (r *Registry[C]) Resolve(fieldType string) (res Resolution, component C, ok bool) {
	res = dispatch(fieldType, r.logger, r.Has)
	if res.Component == "" {
		return res, component, false
	}
	component, ok = r.Get(res.Component)
	return res, component, ok
}
