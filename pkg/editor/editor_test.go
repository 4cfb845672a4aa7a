package editor

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/store"
	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/testsupport"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

func newBuilder(t *testing.T) (*builder.Context, *testsupport.Transport) {
	t.Helper()
	stub := testsupport.NewTransport().
		Reply(http.MethodGet, "/template", testsupport.Template()).
		Reply(http.MethodGet, transport.CatalogPath, testsupport.FieldTypes())
	b, err := builder.New(store.New(stub))
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if err := b.Load(testsupport.Context(), structure.TemplateScope("")); err != nil {
		t.Fatalf("load: %v", err)
	}
	b.EnterEditMode()
	return b, stub
}

func echoField(_ context.Context, req transport.Request) (transport.Response, error) {
	in := req.Data.(structure.FieldInput)
	return testsupport.OK(structure.Field{
		ID: "field-new", StepID: in.StepID, FieldID: in.FieldID, Label: in.Label, Type: in.Type,
		OrderIndex: in.OrderIndex, IsRequired: structure.Flag(in.IsRequired), IsVisible: true,
		Config: structure.Config(in.Config),
	}), nil
}

func TestGenerateFieldID(t *testing.T) {
	cases := map[string]string{
		"Project Name":          "project_name",
		"  BIM Uses (Primary) ": "bim_uses_primary",
		"Ünïcode -- Label":      "n_code_label",
		"___":                   "",
	}
	for label, want := range cases {
		if got := GenerateFieldID(label); got != want {
			t.Fatalf("GenerateFieldID(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestNextOrderIndex(t *testing.T) {
	if got := NextOrderIndex([]structure.Field(nil), fieldOrder); got != 0 {
		t.Fatalf("empty set: got %d", got)
	}
	fields := []structure.Field{{OrderIndex: 4}, {OrderIndex: 1}}
	if got := NextOrderIndex(fields, fieldOrder); got != 5 {
		t.Fatalf("expected max+1, got %d", got)
	}
}

func TestFieldDialog_Validate(t *testing.T) {
	b, _ := newBuilder(t)
	d := NewFieldDialog(b, "step-1")

	if d.Validate() {
		t.Fatalf("empty dialog must not validate")
	}
	if d.Errors[InputFieldID] != "Field ID is required" || d.Errors[InputLabel] != "Label is required" {
		t.Fatalf("unexpected errors: %v", d.Errors)
	}

	d.SetLabel("Project Name")
	if d.Values.FieldID != "project_name" {
		t.Fatalf("field id not derived from label: %q", d.Values.FieldID)
	}
	d.SetFieldID("projectName")
	if d.Validate() || d.Errors[InputFieldID] != "Field ID is already used by another field" {
		t.Fatalf("expected uniqueness error, got %v", d.Errors)
	}
	d.SetFieldID("9lives")
	if d.Validate() {
		t.Fatalf("field id starting with a digit must fail")
	}
	d.SetLabel("Other Name")
	if d.Values.FieldID != "9lives" {
		t.Fatalf("explicit field id must survive label edits")
	}

	d.SetFieldID("team")
	d.SelectType(fieldtypes.TypeTable)
	d.SetConfig("columns", []any{})
	if d.Validate() || d.Errors[InputColumns] == "" {
		t.Fatalf("expected column error, got %v", d.Errors)
	}
	d.SelectType(fieldtypes.TypeIntroTable)
	if !d.Validate() {
		t.Fatalf("intro table defaults carry columns: %v", d.Errors)
	}
}

func TestFieldDialog_SaveCreates(t *testing.T) {
	b, stub := newBuilder(t)
	stub.On(http.MethodPost, "/fields", echoField)

	d := NewFieldDialog(b, "step-1")
	d.SelectType(fieldtypes.TypeTextarea)
	d.SetLabel("Scope Summary")
	d.Values.IsRequired = true

	field, err := d.Save(testsupport.Context())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if d.IsOpen() {
		t.Fatalf("dialog should close after save")
	}
	in := stub.RequestsTo(http.MethodPost, "/fields")[0].Data.(structure.FieldInput)
	want := structure.FieldInput{
		StepID: "step-1", FieldID: "scope_summary", Label: "Scope Summary", Type: fieldtypes.TypeTextarea,
		OrderIndex: 3, IsRequired: true, Config: map[string]any{"rows": 3},
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Fatalf("create payload (-want +got):\n%s", diff)
	}
	if got, ok := b.Field(field.ID); !ok || got.FieldID != "scope_summary" {
		t.Fatalf("created field missing from context")
	}
}

func TestFieldDialog_SaveFailureKeepsDialogOpen(t *testing.T) {
	b, stub := newBuilder(t)
	stub.Fail(http.MethodPut, "/fields/field-1", http.StatusBadRequest, "Field not found")

	field, _ := b.Field("field-1")
	d := EditFieldDialog(b, field)
	d.SetLabel("Renamed")
	if d.Values.FieldID != "projectName" {
		t.Fatalf("editing must not regenerate the field id")
	}

	if _, err := d.Save(testsupport.Context()); err == nil {
		t.Fatalf("expected save error")
	}
	if !d.IsOpen() || d.Errors[InputSubmit] != "Field not found" {
		t.Fatalf("expected open dialog with submit error, got open=%v errors=%v", d.IsOpen(), d.Errors)
	}
}

func TestFieldDialog_ValidationErrorIsReturned(t *testing.T) {
	b, stub := newBuilder(t)
	d := NewFieldDialog(b, "step-1")

	_, err := d.Save(testsupport.Context())
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs[InputLabel] == "" {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(stub.RequestsTo(http.MethodPost, "/fields")) != 0 {
		t.Fatalf("invalid dialog must not submit")
	}
}

func TestStepDialog_CreateAndValidate(t *testing.T) {
	b, stub := newBuilder(t)
	stub.On(http.MethodPost, "/steps", func(_ context.Context, req transport.Request) (transport.Response, error) {
		in := req.Data.(structure.StepInput)
		return testsupport.OK(structure.Step{ID: "step-3", StepNumber: structure.Text(in.StepNumber), Title: in.Title,
			Category: in.Category, OrderIndex: in.OrderIndex, IsVisible: true, BEPType: in.BEPType}), nil
	})

	d := NewStepDialog(b)
	if d.Values.StepNumber != "3" || d.Values.Category != structure.CategoryManagement || d.Values.BEPType != structure.DocumentBoth {
		t.Fatalf("unexpected defaults: %+v", d.Values)
	}
	d.Values.StepNumber = " "
	if d.Validate() || len(d.Errors) != 2 {
		t.Fatalf("expected number and title errors, got %v", d.Errors)
	}

	d.Values.StepNumber = "3"
	d.Values.Title = "Delivery"
	step, err := d.Save(testsupport.Context())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if step.ID != "step-3" || step.OrderIndex != 2 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestEditors_RequireEditMode(t *testing.T) {
	b, stub := newBuilder(t)
	b.ExitEditMode()

	steps := NewStepEditor(b)
	fields := NewFieldEditor(b, "step-1")
	ctx := testsupport.Context()

	checks := map[string]error{}
	_, checks["step reorder"] = steps.Reorder(ctx, 0, 1)
	_, checks["step toggle"] = steps.ToggleVisibility(ctx, "step-1")
	checks["step delete"] = steps.Delete(ctx, "step-1")
	_, checks["field add"] = fields.Add()
	_, checks["field required"] = fields.ToggleRequired(ctx, "field-1")
	_, checks["field move"] = fields.MoveToStep(ctx, "field-1", "step-2")
	_, checks["dialog save"] = EditStepDialog(b, structure.Step{ID: "step-1", Title: "x", StepNumber: "1"}).Save(ctx)

	for name, err := range checks {
		if !errors.Is(err, ErrNotEditing) {
			t.Fatalf("%s: expected ErrNotEditing, got %v", name, err)
		}
	}
	if n := len(stub.Requests()); n != 2 {
		t.Fatalf("expected only the load requests, got %d", n)
	}
}

func TestFieldEditor_ReorderSubmitsFullSet(t *testing.T) {
	b, stub := newBuilder(t)
	stub.Reply(http.MethodPut, "/fields-reorder", nil)
	editor := NewFieldEditor(b, "step-1")
	ctx := testsupport.Context()

	moved, err := editor.Reorder(ctx, 1, 1)
	if err != nil || moved {
		t.Fatalf("no-op reorder: moved=%v err=%v", moved, err)
	}
	if len(stub.RequestsTo(http.MethodPut, "/fields-reorder")) != 0 {
		t.Fatalf("no-op reorder must not submit")
	}

	if moved, err = editor.Reorder(ctx, 2, 0); err != nil || !moved {
		t.Fatalf("reorder: moved=%v err=%v", moved, err)
	}
	req := stub.RequestsTo(http.MethodPut, "/fields-reorder")[0]
	want := structure.ReorderRequest{Orders: []structure.Order{
		{ID: "field-3", OrderIndex: 0},
		{ID: "field-1", OrderIndex: 1},
		{ID: "field-2", OrderIndex: 2},
	}}
	if diff := cmp.Diff(want, req.Data); diff != "" {
		t.Fatalf("reorder payload (-want +got):\n%s", diff)
	}
	var got []string
	for _, field := range editor.Fields() {
		got = append(got, field.ID)
	}
	if diff := cmp.Diff([]string{"field-3", "field-1", "field-2"}, got); diff != "" {
		t.Fatalf("local order (-want +got):\n%s", diff)
	}
}

func TestFieldEditor_ToggleRequiredAndMove(t *testing.T) {
	b, stub := newBuilder(t)
	stub.On(http.MethodPut, "/fields/field-1", func(_ context.Context, req transport.Request) (transport.Response, error) {
		field, _ := b.Field("field-1")
		return testsupport.OK(req.Data.(structure.FieldPatch).Apply(field)), nil
	})
	stub.On(http.MethodPut, "/fields/field-2/move", func(_ context.Context, req transport.Request) (transport.Response, error) {
		move := req.Data.(structure.MoveRequest)
		field, _ := b.Field("field-2")
		field.OrderIndex = move.NewOrderIndex
		return testsupport.OK(field), nil
	})
	editor := NewFieldEditor(b, "step-1")
	ctx := testsupport.Context()

	updated, err := editor.ToggleRequired(ctx, "field-1")
	if err != nil {
		t.Fatalf("toggle required: %v", err)
	}
	if updated.Required() {
		t.Fatalf("field-1 was required, expected it to flip off")
	}

	moved, err := editor.MoveToStep(ctx, "field-2", "step-2")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.StepID != "step-2" || moved.OrderIndex != 1 {
		t.Fatalf("unexpected moved field: %+v", moved)
	}
	req := stub.RequestsTo(http.MethodPut, "/fields/field-2/move")[0]
	if diff := cmp.Diff(structure.MoveRequest{NewStepID: "step-2", NewOrderIndex: 1}, req.Data); diff != "" {
		t.Fatalf("move payload (-want +got):\n%s", diff)
	}

	if _, err := editor.MoveToStep(ctx, "field-3", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
