package builder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-formstruct/pkg/store"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

const defaultViewCacheSize = 4

// Context exposes derived views over a Store plus the UI level edit mode.
// Derived lists are memoised per store revision.
type Context struct {
	store  *store.Store
	logger *slog.Logger

	mu         sync.Mutex
	editMode   bool
	showHidden bool
	views      *lru.Cache[uint64, *views]
	cacheSize  int
}

type views struct {
	steps        []structure.Step
	visibleSteps []structure.Step
	hiddenSteps  []structure.Step
	fields       []structure.Field
	byStep       map[string][]structure.Field
}

// Option customises a Context.
type Option func(*Context)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithViewCacheSize sets how many revisions of derived views are retained.
func WithViewCacheSize(size int) Option {
	return func(c *Context) {
		if size > 0 {
			c.cacheSize = size
		}
	}
}

// New wraps s.
func New(s *store.Store, opts ...Option) (*Context, error) {
	if s == nil {
		return nil, fmt.Errorf("builder: store is required")
	}
	c := &Context{
		store:     s,
		logger:    slog.Default(),
		cacheSize: defaultViewCacheSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	cache, err := lru.New[uint64, *views](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("builder: view cache: %w", err)
	}
	c.views = cache
	return c, nil
}

// Store returns the underlying store.
func (c *Context) Store() *store.Store {
	return c.store
}

// State returns the current store state.
func (c *Context) State() store.State {
	return c.store.State()
}

// Load delegates to the store.
func (c *Context) Load(ctx context.Context, scope structure.Scope) error {
	return c.store.Load(ctx, scope)
}

// Refetch delegates to the store.
func (c *Context) Refetch(ctx context.Context) error {
	return c.store.Refetch(ctx)
}

// Steps returns every step in sibling order.
func (c *Context) Steps() []structure.Step {
	return slices.Clone(c.current().steps)
}

// VisibleSteps returns the visible steps in sibling order.
func (c *Context) VisibleSteps() []structure.Step {
	return slices.Clone(c.current().visibleSteps)
}

// HiddenSteps returns the hidden steps in sibling order.
func (c *Context) HiddenSteps() []structure.Step {
	return slices.Clone(c.current().hiddenSteps)
}

// Fields returns every field ordered by step then position.
func (c *Context) Fields() []structure.Field {
	return cloneFields(c.current().fields)
}

// FieldsForStep returns the fields of one step in sibling order.
func (c *Context) FieldsForStep(stepID string) []structure.Field {
	return cloneFields(c.current().byStep[stepID])
}

// VisibleFieldsForStep returns the visible fields of one step.
func (c *Context) VisibleFieldsForStep(stepID string) []structure.Field {
	return filterFields(c.current().byStep[stepID], true)
}

// HiddenFieldsForStep returns the hidden fields of one step.
func (c *Context) HiddenFieldsForStep(stepID string) []structure.Field {
	return filterFields(c.current().byStep[stepID], false)
}

// Step looks up a step by id.
func (c *Context) Step(id string) (structure.Step, bool) {
	for _, step := range c.current().steps {
		if step.ID == id {
			return step, true
		}
	}
	return structure.Step{}, false
}

// Field looks up a field by id.
func (c *Context) Field(id string) (structure.Field, bool) {
	for _, field := range c.current().fields {
		if field.ID == id {
			return field.Clone(), true
		}
	}
	return structure.Field{}, false
}

func (c *Context) current() *views {
	state := c.store.State()
	if cached, ok := c.views.Get(state.Revision); ok {
		return cached
	}
	v := derive(state)
	c.views.Add(state.Revision, v)
	c.logger.Debug("structure views derived", slog.Uint64("revision", state.Revision))
	return v
}

func derive(state store.State) *views {
	v := &views{
		steps:  slices.Clone(state.Steps),
		byStep: make(map[string][]structure.Field),
	}
	structure.SortSteps(v.steps)

	position := make(map[string]int, len(v.steps))
	for idx, step := range v.steps {
		position[step.ID] = idx
		if step.Visible() {
			v.visibleSteps = append(v.visibleSteps, step)
		} else {
			v.hiddenSteps = append(v.hiddenSteps, step)
		}
	}

	sorted := slices.Clone(state.Fields)
	structure.SortFields(sorted)
	for _, field := range sorted {
		v.byStep[field.StepID] = append(v.byStep[field.StepID], field)
	}
	for _, step := range v.steps {
		v.fields = append(v.fields, v.byStep[step.ID]...)
	}
	// Orphans keep their relative order after owned fields.
	for _, field := range sorted {
		if _, ok := position[field.StepID]; !ok {
			v.fields = append(v.fields, field)
		}
	}
	return v
}

func filterFields(fields []structure.Field, visible bool) []structure.Field {
	out := make([]structure.Field, 0, len(fields))
	for _, field := range fields {
		if field.Visible() == visible {
			out = append(out, field.Clone())
		}
	}
	return out
}

// cloneFields deep copies fields so callers never alias a cached view.
func cloneFields(fields []structure.Field) []structure.Field {
	out := make([]structure.Field, len(fields))
	for idx, field := range fields {
		out[idx] = field.Clone()
	}
	return out
}
