package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/testsupport"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

func TestCreateStep_CarriesScopeAndAppends(t *testing.T) {
	s, stub := newLoadedStore(t, structure.DraftScope("d1", "post-appointment"))
	stub.On(http.MethodPost, "/steps", func(_ context.Context, req transport.Request) (transport.Response, error) {
		in := req.Data.(structure.StepInput)
		return testsupport.OK(structure.Step{
			ID:         "step-new",
			StepNumber: structure.Text(in.StepNumber),
			Title:      in.Title,
			OrderIndex: in.OrderIndex,
			IsVisible:  true,
			DraftID:    in.DraftID,
			Category:   structure.CategoryManagement,
		}), nil
	})

	created, err := s.CreateStep(testsupport.Context(), structure.StepInput{StepNumber: "3", Title: "Delivery", OrderIndex: 2})
	if err != nil {
		t.Fatalf("create step: %v", err)
	}
	if created.ID != "step-new" || created.Category != structure.CategoryManagement {
		t.Fatalf("expected server copy, got %+v", created)
	}

	reqs := stub.RequestsTo(http.MethodPost, "/steps")
	in := reqs[0].Data.(structure.StepInput)
	if in.DraftID != "d1" || in.ProjectID != "" {
		t.Fatalf("expected draft scope ids on create, got project=%q draft=%q", in.ProjectID, in.DraftID)
	}

	state := s.State()
	if got := ids(state.Steps, stepID); got[len(got)-1] != "step-new" {
		t.Fatalf("created step not appended: %v", got)
	}
}

func TestCreateField_ProjectScope(t *testing.T) {
	s, stub := newLoadedStore(t, structure.ProjectScope("p1", ""))
	stub.On(http.MethodPost, "/fields", func(_ context.Context, req transport.Request) (transport.Response, error) {
		in := req.Data.(structure.FieldInput)
		return testsupport.OK(structure.Field{
			ID: "field-new", StepID: in.StepID, FieldID: in.FieldID, Label: in.Label,
			Type: in.Type, OrderIndex: in.OrderIndex, IsVisible: true, BEPType: structure.FieldShared,
			ProjectID: in.ProjectID,
		}), nil
	})

	created, err := s.CreateField(testsupport.Context(), structure.FieldInput{
		StepID: "step-1", FieldID: "budget", Label: "Budget", Type: "budget", OrderIndex: 3,
	})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}
	if created.ProjectID != "p1" || created.BEPType != structure.FieldShared {
		t.Fatalf("unexpected created field: %+v", created)
	}
	if len(s.State().Fields) != 5 {
		t.Fatalf("expected field to be appended")
	}
}

func TestUpdateField_ReplacesWithServerObject(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodPut, "/fields/field-1", structure.Field{
		ID: "field-1", StepID: "step-1", FieldID: "projectName", Label: "Project Title",
		Type: "text", OrderIndex: 0, IsVisible: true, HelpText: "server side default",
	})

	if _, err := s.UpdateField(testsupport.Context(), "field-1", structure.FieldPatch{Label: structure.Ptr("Project Title")}); err != nil {
		t.Fatalf("update field: %v", err)
	}
	state := s.State()
	field := state.Fields[findField(t, state.Fields, "field-1")]
	if field.Label != "Project Title" || field.HelpText != "server side default" {
		t.Fatalf("expected full replacement, got %+v", field)
	}
	if field.Required() {
		t.Fatalf("server copy omitted is_required, local value must not survive a replacement")
	}
}

func TestUpdateStep_Replaces(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodPut, "/steps/step-1", structure.Step{ID: "step-1", StepNumber: "1", Title: "Renamed", IsVisible: true})

	updated, err := s.UpdateStep(testsupport.Context(), "step-1", structure.StepPatch{Title: structure.Ptr("Renamed")})
	if err != nil {
		t.Fatalf("update step: %v", err)
	}
	if updated.Title != "Renamed" || s.State().Steps[0].Title != "Renamed" {
		t.Fatalf("step not replaced")
	}
}

func TestDeleteStep_CascadesFields(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodDelete, "/steps/step-1", nil)

	if err := s.DeleteStep(testsupport.Context(), "step-1"); err != nil {
		t.Fatalf("delete step: %v", err)
	}
	state := s.State()
	if diff := cmp.Diff([]string{"step-2"}, ids(state.Steps, stepID)); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"field-4"}, ids(state.Fields, fieldID)); diff != "" {
		t.Fatalf("owned fields were not removed (-want +got):\n%s", diff)
	}
}

func TestDeleteField(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodDelete, "/fields/field-2", nil)

	if err := s.DeleteField(testsupport.Context(), "field-2"); err != nil {
		t.Fatalf("delete field: %v", err)
	}
	for _, field := range s.State().Fields {
		if field.ID == "field-2" {
			t.Fatalf("field not removed")
		}
	}
}

func TestReorderFields_AppliesSubmittedPayload(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodPut, "/fields-reorder", nil)

	orders := []structure.Order{
		{ID: "field-3", OrderIndex: 0},
		{ID: "field-1", OrderIndex: 1},
		{ID: "field-2", OrderIndex: 2},
	}
	if err := s.ReorderFields(testsupport.Context(), orders); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	reqs := stub.RequestsTo(http.MethodPut, "/fields-reorder")
	payload, err := json.Marshal(reqs[0].Data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	want := `{"orders":[{"id":"field-3","order_index":0},{"id":"field-1","order_index":1},{"id":"field-2","order_index":2}]}`
	if string(payload) != want {
		t.Fatalf("payload = %s", payload)
	}

	state := s.State()
	got := structure.FieldsOf(state.Fields, "step-1")
	if diff := cmp.Diff([]string{"field-3", "field-1", "field-2"}, ids(got, fieldID)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for _, order := range orders {
		field := state.Fields[findField(t, state.Fields, order.ID)]
		if field.OrderIndex != order.OrderIndex {
			t.Fatalf("field %s order_index = %d, want %d", order.ID, field.OrderIndex, order.OrderIndex)
		}
	}
}

func TestReorderSteps_FailureLeavesStateUntouched(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Fail(http.MethodPut, "/steps-reorder", http.StatusBadRequest, "orders must be an array of { id, order_index }")
	before := s.State()

	err := s.ReorderSteps(testsupport.Context(), []structure.Order{{ID: "step-2", OrderIndex: 0}, {ID: "step-1", OrderIndex: 1}})
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Status != http.StatusBadRequest {
		t.Fatalf("expected relayed 400, got %v", err)
	}

	after := s.State()
	if diff := cmp.Diff(before.Steps, after.Steps); diff != "" {
		t.Fatalf("rejected reorder changed steps (-before +after):\n%s", diff)
	}
	if after.Message() != "orders must be an array of { id, order_index }" {
		t.Fatalf("error not recorded: %q", after.Message())
	}
	if after.Revision != before.Revision {
		t.Fatalf("revision advanced on failure")
	}
}

func TestReorderSteps_Success(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodPut, "/steps-reorder", nil)

	if err := s.ReorderSteps(testsupport.Context(), []structure.Order{{ID: "step-2", OrderIndex: 0}, {ID: "step-1", OrderIndex: 1}}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if diff := cmp.Diff([]string{"step-2", "step-1"}, ids(s.State().Steps, stepID)); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleFieldVisibility_MergesFlagOnly(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	// The server copy disagrees on everything except the flag we merge.
	stub.Reply(http.MethodPut, "/fields/field-2/visibility", structure.Field{
		ID: "field-2", Label: "Server Label", Type: "text", OrderIndex: 9, IsVisible: false,
	})
	before := s.State().Fields[findField(t, s.State().Fields, "field-2")]

	merged, err := s.ToggleFieldVisibility(testsupport.Context(), "field-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if merged.Visible() {
		t.Fatalf("expected field to be hidden")
	}
	state := s.State()
	after := state.Fields[findField(t, state.Fields, "field-2")]
	if after.OrderIndex != before.OrderIndex || after.Label != before.Label || after.Type != before.Type {
		t.Fatalf("toggle changed other attributes: before=%+v after=%+v", before, after)
	}
	if after.Visible() {
		t.Fatalf("visibility flag not merged")
	}
}

func TestToggleStepVisibility(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodPut, "/steps/step-2/visibility", map[string]any{"id": "step-2", "is_visible": 1})

	merged, err := s.ToggleStepVisibility(testsupport.Context(), "step-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !merged.Visible() || merged.Title != "Appendices" {
		t.Fatalf("unexpected merged step: %+v", merged)
	}
}

func TestMoveFieldToStep_OverridesParent(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	// Server response omits step_id.
	stub.Reply(http.MethodPut, "/fields/field-1/move", structure.Field{
		ID: "field-1", FieldID: "projectName", Label: "Project Name", Type: "text", OrderIndex: 1, IsVisible: true,
	})

	moved, err := s.MoveFieldToStep(testsupport.Context(), "field-1", "step-2", 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.StepID != "step-2" {
		t.Fatalf("parent override missing: %+v", moved)
	}
	req := stub.RequestsTo(http.MethodPut, "/fields/field-1/move")[0]
	if diff := cmp.Diff(structure.MoveRequest{NewStepID: "step-2", NewOrderIndex: 1}, req.Data); diff != "" {
		t.Fatalf("move body mismatch (-want +got):\n%s", diff)
	}
	state := s.State()
	if diff := cmp.Diff([]string{"field-4", "field-1"}, ids(structure.FieldsOf(state.Fields, "step-2"), fieldID)); diff != "" {
		t.Fatalf("step-2 fields mismatch (-want +got):\n%s", diff)
	}
}

func TestMutation_NotCancelledByCaller(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.On(http.MethodDelete, "/fields/field-1", func(ctx context.Context, _ transport.Request) (transport.Response, error) {
		if err := ctx.Err(); err != nil {
			return transport.Response{}, err
		}
		return testsupport.OK(nil), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.DeleteField(ctx, "field-1"); err != nil {
		t.Fatalf("mutation should ignore caller cancellation, got %v", err)
	}
}

func TestMutation_GenericMessage(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.On(http.MethodDelete, "/fields/field-1", func(context.Context, transport.Request) (transport.Response, error) {
		return transport.Response{}, errors.New("")
	})

	err := s.DeleteField(testsupport.Context(), "field-1")
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Message != GenericMessage {
		t.Fatalf("expected generic message, got %v", err)
	}
	if s.State().Message() != GenericMessage {
		t.Fatalf("error not recorded in state")
	}
}

func TestMutation_SkippedAfterScopeChange(t *testing.T) {
	s, stub := newLoadedStore(t, structure.TemplateScope(""))
	stub.Reply(http.MethodGet, "/draft/d9", []structure.StepTree{})
	stub.On(http.MethodDelete, "/steps/step-1", func(context.Context, transport.Request) (transport.Response, error) {
		if err := s.Load(testsupport.Context(), structure.DraftScope("d9", "")); err != nil {
			t.Errorf("load during mutation: %v", err)
		}
		return testsupport.OK(nil), nil
	})
	if err := s.DeleteStep(testsupport.Context(), "step-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.State().Steps) != 0 {
		t.Fatalf("expected draft snapshot to be untouched by stale mutation")
	}
}

func TestCloneScopeTemplate(t *testing.T) {
	cases := []struct {
		name  string
		scope structure.Scope
		path  string
		body  map[string]string
	}{
		{name: "draft", scope: structure.DraftScope("d1", ""), path: "/clone-to-draft", body: map[string]string{"draftId": "d1"}},
		{name: "project", scope: structure.ProjectScope("p1", ""), path: "/clone-template", body: map[string]string{"projectId": "p1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, stub := newLoadedStore(t, tc.scope)
			stub.Reply(http.MethodPost, tc.path, testsupport.Template())

			if err := s.CloneScopeTemplate(testsupport.Context()); err != nil {
				t.Fatalf("clone: %v", err)
			}
			reqs := stub.RequestsTo(http.MethodPost, tc.path)
			if len(reqs) != 1 {
				t.Fatalf("expected one clone request, got %d", len(reqs))
			}
			if diff := cmp.Diff(tc.body, reqs[0].Data); diff != "" {
				t.Fatalf("clone body mismatch (-want +got):\n%s", diff)
			}
			if loads := stub.RequestsTo(http.MethodGet, tc.scope.Path()); len(loads) != 2 {
				t.Fatalf("expected a reload after clone, got %d loads", len(loads))
			}
			if !s.State().HasCustomStructure {
				t.Fatalf("expected scope to be marked customised")
			}
		})
	}
}

func TestCloneScopeTemplate_RejectedWhenAlreadyCustomised(t *testing.T) {
	s, stub := newLoadedStore(t, structure.DraftScope("d1", ""))
	stub.Fail(http.MethodPost, "/clone-to-draft", http.StatusBadRequest, "Draft already has custom structure. Use reset endpoint to start fresh.")

	err := s.CloneScopeTemplate(testsupport.Context())
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Status != http.StatusBadRequest {
		t.Fatalf("expected relayed 400, got %v", err)
	}
}

func TestResetToDefault(t *testing.T) {
	s, stub := newLoadedStore(t, structure.ProjectScope("p1", ""))
	stub.Reply(http.MethodPost, "/reset/p1", testsupport.Template())

	if err := s.ResetToDefault(testsupport.Context()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if loads := stub.RequestsTo(http.MethodGet, "/project/p1"); len(loads) != 2 {
		t.Fatalf("expected reload after reset, got %d loads", len(loads))
	}

	draft, draftStub := newLoadedStore(t, structure.DraftScope("d1", ""))
	draftStub.Reply(http.MethodPost, "/reset-draft/d1", nil)
	if err := draft.ResetToDefault(testsupport.Context()); err != nil {
		t.Fatalf("reset draft: %v", err)
	}
}

func TestTemplateOperations_RequireCustomisableScope(t *testing.T) {
	s, _ := newLoadedStore(t, structure.TemplateScope(""))
	if err := s.CloneScopeTemplate(testsupport.Context()); !errors.Is(err, ErrTemplateScope) {
		t.Fatalf("clone: expected ErrTemplateScope, got %v", err)
	}
	if err := s.ResetToDefault(testsupport.Context()); !errors.Is(err, ErrTemplateScope) {
		t.Fatalf("reset: expected ErrTemplateScope, got %v", err)
	}
}
