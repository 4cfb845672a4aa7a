package store

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

// CreateStep creates a step in the current scope and appends the server copy.
func (s *Store) CreateStep(ctx context.Context, in structure.StepInput) (structure.Step, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Step{}, err
	}
	projectID, draftID := scope.Owner()
	if in.ProjectID == "" {
		in.ProjectID = projectID
	}
	if in.DraftID == "" {
		in.DraftID = draftID
	}

	var created structure.Step
	err = s.mutate(ctx, "create step", scope, transport.Request{
		Method: http.MethodPost,
		Path:   "/steps",
		Data:   in,
	}, &created, func(state *State) {
		state.Steps = append(state.Steps, created)
	})
	return created, err
}

// UpdateStep sends patch and replaces the local step with the server copy.
func (s *Store) UpdateStep(ctx context.Context, id string, patch structure.StepPatch) (structure.Step, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Step{}, err
	}
	var updated structure.Step
	err = s.mutate(ctx, "update step", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/steps/" + url.PathEscape(id),
		Data:   patch,
	}, &updated, func(state *State) {
		replaceStep(state.Steps, id, updated)
	})
	return updated, err
}

// DeleteStep removes a step and every field it owns.
func (s *Store) DeleteStep(ctx context.Context, id string) error {
	scope, err := s.currentScope()
	if err != nil {
		return err
	}
	return s.mutate(ctx, "delete step", scope, transport.Request{
		Method: http.MethodDelete,
		Path:   "/steps/" + url.PathEscape(id),
	}, nil, func(state *State) {
		state.Steps = removeWhere(state.Steps, func(step structure.Step) bool { return step.ID == id })
		state.Fields = removeWhere(state.Fields, func(field structure.Field) bool { return field.StepID == id })
	})
}

// ReorderSteps submits the full sibling order. Local positions change only
// after the server accepts it.
func (s *Store) ReorderSteps(ctx context.Context, orders []structure.Order) error {
	scope, err := s.currentScope()
	if err != nil {
		return err
	}
	submitted := append([]structure.Order(nil), orders...)
	return s.mutate(ctx, "reorder steps", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/steps-reorder",
		Data:   structure.ReorderRequest{Orders: submitted},
	}, nil, func(state *State) {
		positions := orderMap(submitted)
		for idx := range state.Steps {
			if position, ok := positions[state.Steps[idx].ID]; ok {
				state.Steps[idx].OrderIndex = position
			}
		}
		structure.SortSteps(state.Steps)
	})
}

// ToggleStepVisibility flips visibility on the server and merges only the
// returned flag into the local step.
func (s *Store) ToggleStepVisibility(ctx context.Context, id string) (structure.Step, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Step{}, err
	}
	var confirmed structure.Step
	var merged structure.Step
	err = s.mutate(ctx, "toggle step visibility", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/steps/" + url.PathEscape(id) + "/visibility",
	}, &confirmed, func(state *State) {
		merged = mergeStepVisibility(state.Steps, id, confirmed)
	})
	return merged, err
}

// CreateField creates a field in the current scope and appends the server copy.
func (s *Store) CreateField(ctx context.Context, in structure.FieldInput) (structure.Field, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Field{}, err
	}
	projectID, draftID := scope.Owner()
	if in.ProjectID == "" {
		in.ProjectID = projectID
	}
	if in.DraftID == "" {
		in.DraftID = draftID
	}

	var created structure.Field
	err = s.mutate(ctx, "create field", scope, transport.Request{
		Method: http.MethodPost,
		Path:   "/fields",
		Data:   in,
	}, &created, func(state *State) {
		state.Fields = append(state.Fields, created)
	})
	return created, err
}

// UpdateField sends patch and replaces the local field with the server copy.
func (s *Store) UpdateField(ctx context.Context, id string, patch structure.FieldPatch) (structure.Field, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Field{}, err
	}
	var updated structure.Field
	err = s.mutate(ctx, "update field", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/fields/" + url.PathEscape(id),
		Data:   patch,
	}, &updated, func(state *State) {
		replaceField(state.Fields, id, updated)
	})
	return updated, err
}

// DeleteField removes a field.
func (s *Store) DeleteField(ctx context.Context, id string) error {
	scope, err := s.currentScope()
	if err != nil {
		return err
	}
	return s.mutate(ctx, "delete field", scope, transport.Request{
		Method: http.MethodDelete,
		Path:   "/fields/" + url.PathEscape(id),
	}, nil, func(state *State) {
		state.Fields = removeWhere(state.Fields, func(field structure.Field) bool { return field.ID == id })
	})
}

// ReorderFields submits the full sibling order of one step and applies the
// same payload locally once accepted.
func (s *Store) ReorderFields(ctx context.Context, orders []structure.Order) error {
	scope, err := s.currentScope()
	if err != nil {
		return err
	}
	submitted := append([]structure.Order(nil), orders...)
	return s.mutate(ctx, "reorder fields", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/fields-reorder",
		Data:   structure.ReorderRequest{Orders: submitted},
	}, nil, func(state *State) {
		positions := orderMap(submitted)
		for idx := range state.Fields {
			if position, ok := positions[state.Fields[idx].ID]; ok {
				state.Fields[idx].OrderIndex = position
			}
		}
		structure.SortFields(state.Fields)
	})
}

// ToggleFieldVisibility flips visibility on the server and merges only the
// returned flag into the local field.
func (s *Store) ToggleFieldVisibility(ctx context.Context, id string) (structure.Field, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Field{}, err
	}
	var confirmed structure.Field
	var merged structure.Field
	err = s.mutate(ctx, "toggle field visibility", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/fields/" + url.PathEscape(id) + "/visibility",
	}, &confirmed, func(state *State) {
		merged = mergeFieldVisibility(state.Fields, id, confirmed)
	})
	return merged, err
}

// MoveFieldToStep reparents a field. The local copy takes the server object
// with the owning step forced to newStepID.
func (s *Store) MoveFieldToStep(ctx context.Context, id, newStepID string, newOrderIndex int) (structure.Field, error) {
	scope, err := s.currentScope()
	if err != nil {
		return structure.Field{}, err
	}
	var confirmed structure.Field
	var merged structure.Field
	err = s.mutate(ctx, "move field", scope, transport.Request{
		Method: http.MethodPut,
		Path:   "/fields/" + url.PathEscape(id) + "/move",
		Data:   structure.MoveRequest{NewStepID: newStepID, NewOrderIndex: newOrderIndex},
	}, &confirmed, func(state *State) {
		merged = mergeFieldMove(state.Fields, id, newStepID, confirmed)
	})
	return merged, err
}

// CloneScopeTemplate copies the default template into the current draft or
// project scope, then reloads it.
func (s *Store) CloneScopeTemplate(ctx context.Context) error {
	scope, err := s.currentScope()
	if err != nil {
		return err
	}
	var req transport.Request
	switch scope.Kind {
	case structure.ScopeDraft:
		req = transport.Request{
			Method: http.MethodPost,
			Path:   "/clone-to-draft",
			Data:   map[string]string{"draftId": scope.ID},
		}
	case structure.ScopeProject:
		req = transport.Request{
			Method: http.MethodPost,
			Path:   "/clone-template",
			Data:   map[string]string{"projectId": scope.ID},
		}
	default:
		return ErrTemplateScope
	}
	if err := s.mutate(ctx, "clone template", scope, req, nil, func(state *State) {
		state.HasCustomStructure = true
	}); err != nil {
		return err
	}
	return s.Load(ctx, scope)
}

// ResetToDefault discards the customisation of the current draft or project
// scope, then reloads it.
func (s *Store) ResetToDefault(ctx context.Context) error {
	scope, err := s.currentScope()
	if err != nil {
		return err
	}
	var path string
	switch scope.Kind {
	case structure.ScopeDraft:
		path = "/reset-draft/" + url.PathEscape(scope.ID)
	case structure.ScopeProject:
		path = "/reset/" + url.PathEscape(scope.ID)
	default:
		return ErrTemplateScope
	}
	if err := s.mutate(ctx, "reset structure", scope, transport.Request{
		Method: http.MethodPost,
		Path:   path,
	}, nil, nil); err != nil {
		return err
	}
	return s.Load(ctx, scope)
}

func (s *Store) currentScope() (structure.Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return structure.Scope{}, ErrClosed
	}
	return s.state.Scope, nil
}

// mutate sends req on a context detached from caller cancellation, decodes
// the response data into out when non-nil and applies the change under the
// lock. A change is only applied while the store still holds the scope the
// request was issued for.
func (s *Store) mutate(ctx context.Context, op string, scope structure.Scope, req transport.Request, out any, apply func(*State)) error {
	resp, err := s.transport.Do(context.WithoutCancel(ctx), req)
	if err == nil && out != nil {
		err = decodeData(resp, out)
	}
	if err != nil {
		return s.fail(op, err)
	}

	s.mu.Lock()
	if s.closed || s.state.Scope != scope {
		s.mu.Unlock()
		s.logger.Debug("structure mutation not applied", slog.String("op", op), slog.String("scope", scope.String()))
		return nil
	}
	if apply != nil {
		apply(&s.state)
		s.state.Revision++
	}
	s.unlockAndNotify()
	return nil
}

func (s *Store) fail(op string, err error) error {
	wrapped := wrapError(op, err)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return wrapped
	}
	s.state.Err = wrapped
	s.unlockAndNotify()
	s.logger.Warn("structure mutation failed",
		slog.String("op", op),
		slog.Int("status", wrapped.Status),
		slog.String("error", wrapped.Message),
	)
	return wrapped
}
