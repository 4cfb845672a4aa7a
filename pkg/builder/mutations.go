package builder

import (
	"context"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// CreateStep delegates to the store.
func (c *Context) CreateStep(ctx context.Context, in structure.StepInput) (structure.Step, error) {
	return c.store.CreateStep(ctx, in)
}

// UpdateStep delegates to the store.
func (c *Context) UpdateStep(ctx context.Context, id string, patch structure.StepPatch) (structure.Step, error) {
	return c.store.UpdateStep(ctx, id, patch)
}

// DeleteStep delegates to the store.
func (c *Context) DeleteStep(ctx context.Context, id string) error {
	return c.store.DeleteStep(ctx, id)
}

// ReorderSteps delegates to the store.
func (c *Context) ReorderSteps(ctx context.Context, orders []structure.Order) error {
	return c.store.ReorderSteps(ctx, orders)
}

// ToggleStepVisibility delegates to the store.
func (c *Context) ToggleStepVisibility(ctx context.Context, id string) (structure.Step, error) {
	return c.store.ToggleStepVisibility(ctx, id)
}

// CreateField delegates to the store.
func (c *Context) CreateField(ctx context.Context, in structure.FieldInput) (structure.Field, error) {
	return c.store.CreateField(ctx, in)
}

// UpdateField delegates to the store.
func (c *Context) UpdateField(ctx context.Context, id string, patch structure.FieldPatch) (structure.Field, error) {
	return c.store.UpdateField(ctx, id, patch)
}

// DeleteField delegates to the store.
func (c *Context) DeleteField(ctx context.Context, id string) error {
	return c.store.DeleteField(ctx, id)
}

// ReorderFields delegates to the store.
func (c *Context) ReorderFields(ctx context.Context, orders []structure.Order) error {
	return c.store.ReorderFields(ctx, orders)
}

// ToggleFieldVisibility delegates to the store.
func (c *Context) ToggleFieldVisibility(ctx context.Context, id string) (structure.Field, error) {
	return c.store.ToggleFieldVisibility(ctx, id)
}

// MoveFieldToStep delegates to the store.
func (c *Context) MoveFieldToStep(ctx context.Context, id, newStepID string, newOrderIndex int) (structure.Field, error) {
	return c.store.MoveFieldToStep(ctx, id, newStepID, newOrderIndex)
}

// CloneScopeTemplate delegates to the store.
func (c *Context) CloneScopeTemplate(ctx context.Context) error {
	return c.store.CloneScopeTemplate(ctx)
}

// ResetToDefault delegates to the store.
func (c *Context) ResetToDefault(ctx context.Context) error {
	return c.store.ResetToDefault(ctx)
}
