package editor

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/ordering"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// StepEditor edits the step list of the loaded scope.
type StepEditor struct {
	builder *builder.Context
}

// NewStepEditor wraps b.
func NewStepEditor(b *builder.Context) *StepEditor {
	return &StepEditor{builder: b}
}

// Steps returns every step in sibling order.
func (e *StepEditor) Steps() []structure.Step {
	return e.builder.Steps()
}

// Add opens a create dialog.
func (e *StepEditor) Add() (*StepDialog, error) {
	if !e.builder.IsEditMode() {
		return nil, ErrNotEditing
	}
	return NewStepDialog(e.builder), nil
}

// Edit opens an edit dialog for id.
func (e *StepEditor) Edit(id string) (*StepDialog, error) {
	if !e.builder.IsEditMode() {
		return nil, ErrNotEditing
	}
	step, ok := e.builder.Step(id)
	if !ok {
		return nil, fmt.Errorf("%w: step %s", ErrNotFound, id)
	}
	return EditStepDialog(e.builder, step), nil
}

// Reorder moves the step at from to to and submits the full sibling order.
// It reports false, without a request, when nothing moves.
func (e *StepEditor) Reorder(ctx context.Context, from, to int) (bool, error) {
	if !e.builder.IsEditMode() {
		return false, ErrNotEditing
	}
	moved, ok := ordering.Move(e.builder.Steps(), from, to)
	if !ok {
		return false, nil
	}
	if err := e.builder.ReorderSteps(ctx, ordering.Orders(moved, ordering.StepID)); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleVisibility flips the visibility of id.
func (e *StepEditor) ToggleVisibility(ctx context.Context, id string) (structure.Step, error) {
	if !e.builder.IsEditMode() {
		return structure.Step{}, ErrNotEditing
	}
	return e.builder.ToggleStepVisibility(ctx, id)
}

// Delete removes id and its fields.
func (e *StepEditor) Delete(ctx context.Context, id string) error {
	if !e.builder.IsEditMode() {
		return ErrNotEditing
	}
	return e.builder.DeleteStep(ctx, id)
}

// Customize copies the default template into the loaded draft or project.
func (e *StepEditor) Customize(ctx context.Context) error {
	if !e.builder.IsEditMode() {
		return ErrNotEditing
	}
	return e.builder.CloneScopeTemplate(ctx)
}

// Reset drops the customisation of the loaded draft or project.
func (e *StepEditor) Reset(ctx context.Context) error {
	if !e.builder.IsEditMode() {
		return ErrNotEditing
	}
	return e.builder.ResetToDefault(ctx)
}

// FieldEditor edits the fields of one step.
type FieldEditor struct {
	builder *builder.Context
	stepID  string
}

// NewFieldEditor wraps b for stepID.
func NewFieldEditor(b *builder.Context, stepID string) *FieldEditor {
	return &FieldEditor{builder: b, stepID: stepID}
}

// StepID returns the edited step.
func (e *FieldEditor) StepID() string { return e.stepID }

// Fields returns the fields of the step in sibling order, hidden included.
func (e *FieldEditor) Fields() []structure.Field {
	return e.builder.FieldsForStep(e.stepID)
}

// Add opens a create dialog.
func (e *FieldEditor) Add() (*FieldDialog, error) {
	if !e.builder.IsEditMode() {
		return nil, ErrNotEditing
	}
	return NewFieldDialog(e.builder, e.stepID), nil
}

// Edit opens an edit dialog for id.
func (e *FieldEditor) Edit(id string) (*FieldDialog, error) {
	if !e.builder.IsEditMode() {
		return nil, ErrNotEditing
	}
	field, err := e.field(id)
	if err != nil {
		return nil, err
	}
	return EditFieldDialog(e.builder, field), nil
}

// Reorder moves the field at from to to and submits the full sibling order
// of the step. It reports false, without a request, when nothing moves.
func (e *FieldEditor) Reorder(ctx context.Context, from, to int) (bool, error) {
	if !e.builder.IsEditMode() {
		return false, ErrNotEditing
	}
	moved, ok := ordering.Move(e.Fields(), from, to)
	if !ok {
		return false, nil
	}
	if err := e.builder.ReorderFields(ctx, ordering.Orders(moved, ordering.FieldID)); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleVisibility flips the visibility of id.
func (e *FieldEditor) ToggleVisibility(ctx context.Context, id string) (structure.Field, error) {
	if !e.builder.IsEditMode() {
		return structure.Field{}, ErrNotEditing
	}
	return e.builder.ToggleFieldVisibility(ctx, id)
}

// ToggleRequired flips the required flag of id through a field update.
func (e *FieldEditor) ToggleRequired(ctx context.Context, id string) (structure.Field, error) {
	if !e.builder.IsEditMode() {
		return structure.Field{}, ErrNotEditing
	}
	field, err := e.field(id)
	if err != nil {
		return structure.Field{}, err
	}
	return e.builder.UpdateField(ctx, id, structure.FieldPatch{
		IsRequired: structure.Ptr(!field.Required()),
	})
}

// Delete removes id.
func (e *FieldEditor) Delete(ctx context.Context, id string) error {
	if !e.builder.IsEditMode() {
		return ErrNotEditing
	}
	return e.builder.DeleteField(ctx, id)
}

// MoveToStep reparents id, appending it after the fields of stepID.
func (e *FieldEditor) MoveToStep(ctx context.Context, id, stepID string) (structure.Field, error) {
	if !e.builder.IsEditMode() {
		return structure.Field{}, ErrNotEditing
	}
	if _, ok := e.builder.Step(stepID); !ok {
		return structure.Field{}, fmt.Errorf("%w: step %s", ErrNotFound, stepID)
	}
	next := NextOrderIndex(e.builder.FieldsForStep(stepID), fieldOrder)
	return e.builder.MoveFieldToStep(ctx, id, stepID, next)
}

func (e *FieldEditor) field(id string) (structure.Field, error) {
	field, ok := e.builder.Field(id)
	if !ok || field.StepID != e.stepID {
		return structure.Field{}, fmt.Errorf("%w: field %s", ErrNotFound, id)
	}
	return field, nil
}
