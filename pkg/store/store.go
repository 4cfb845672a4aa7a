package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

// Store owns the canonical snapshot of one scope and mediates every mutation
// against the backend. Loads are cancellable; mutations are not.
type Store struct {
	transport transport.Transport
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	observers  map[int]func(State)
	nextID     int
}

// New constructs a Store over t.
func New(t transport.Transport, opts ...Option) *Store {
	s := &Store{
		transport: t,
		logger:    slog.Default(),
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a copy of the state after every change.
// The returned function removes the observer.
func (s *Store) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Close cancels any outstanding load and rejects later operations.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.observers = make(map[int]func(State))
}

// Load replaces the snapshot with the structure of scope. A previous load
// still in flight is cancelled first and its response is discarded. Failures
// are recorded in State and returned; cancellation is not a failure.
func (s *Store) Load(ctx context.Context, scope structure.Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	generation := s.generation
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state.Scope = scope
	s.state.Loading = true
	s.state.Err = nil
	s.unlockAndNotify()

	var (
		tree   []structure.StepTree
		custom bool
		types  []structure.FieldTypeInfo
		// The catalogue is supplementary: its failure never discards the
		// structure.
		catalogErr error
	)
	group, groupCtx := errgroup.WithContext(loadCtx)
	group.Go(func() error {
		resp, err := s.transport.Do(groupCtx, transport.Request{
			Method: http.MethodGet,
			Path:   scope.Path(),
			Query:  scope.Query(),
		})
		if err != nil {
			return err
		}
		custom = resp.Body.HasCustomStructure
		return decodeData(resp, &tree)
	})
	group.Go(func() error {
		resp, err := s.transport.Do(groupCtx, transport.Request{
			Method: http.MethodGet,
			Path:   transport.CatalogPath,
		})
		if err == nil {
			err = decodeData(resp, &types)
		}
		catalogErr = err
		return nil
	})
	err := group.Wait()

	s.mu.Lock()
	if s.generation != generation {
		// Superseded by a newer load or Close.
		s.mu.Unlock()
		cancel()
		return nil
	}
	s.cancel = nil
	cancel()
	s.state.Loading = false

	if err != nil {
		if transport.IsCanceled(err) {
			s.logger.Debug("structure load cancelled", slog.String("scope", scope.String()))
			s.unlockAndNotify()
			return nil
		}
		loadErr := wrapError("load", err)
		s.state.Err = loadErr
		s.unlockAndNotify()
		s.logger.Warn("structure load failed",
			slog.String("scope", scope.String()),
			slog.String("error", loadErr.Message),
		)
		return loadErr
	}

	snapshot := structure.Flatten(tree)
	s.state.Steps = snapshot.Steps
	s.state.Fields = snapshot.Fields
	s.state.HasCustomStructure = scope.Customizable() && custom
	var catalogFailure *Error
	switch {
	case catalogErr == nil:
		if types == nil {
			types = []structure.FieldTypeInfo{}
		}
		s.state.FieldTypes = types
	case !transport.IsCanceled(catalogErr):
		catalogFailure = wrapError("load field types", catalogErr)
		s.state.Err = catalogFailure
	}
	s.state.Revision++
	s.unlockAndNotify()
	if catalogFailure != nil {
		s.logger.Warn("field type catalogue load failed",
			slog.String("scope", scope.String()),
			slog.String("error", catalogFailure.Message),
		)
		return catalogFailure
	}
	s.logger.Debug("structure loaded",
		slog.String("scope", scope.String()),
		slog.Int("steps", len(snapshot.Steps)),
		slog.Int("fields", len(snapshot.Fields)),
	)
	return nil
}

// Refetch reloads the current scope.
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	scope := s.state.Scope
	s.mu.Unlock()
	if scope.Kind == "" {
		return ErrNoScope
	}
	return s.Load(ctx, scope)
}

// unlockAndNotify must be called with s.mu held. It releases the lock and
// hands every observer its own copy of the state.
func (s *Store) unlockAndNotify() {
	type delivery struct {
		fn    func(State)
		state State
	}
	pending := make([]delivery, 0, len(s.observers))
	for _, fn := range s.observers {
		pending = append(pending, delivery{fn: fn, state: s.state.clone()})
	}
	s.mu.Unlock()
	for _, d := range pending {
		d.fn(d.state)
	}
}

func decodeData(resp transport.Response, out any) error {
	if len(resp.Body.Data) == 0 {
		return fmt.Errorf("store: response carried no data")
	}
	if err := json.Unmarshal(resp.Body.Data, out); err != nil {
		return fmt.Errorf("store: decode response: %w", err)
	}
	return nil
}
