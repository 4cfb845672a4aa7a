package structure

import "encoding/json"

// Envelope wraps every response body.
type Envelope struct {
	Success            bool            `json:"success"`
	Data               json.RawMessage `json:"data,omitempty"`
	Count              int             `json:"count,omitempty"`
	HasCustomStructure bool            `json:"hasCustomStructure,omitempty"`
	Message            string          `json:"message,omitempty"`
	Error              string          `json:"error,omitempty"`
}

// Order assigns a position to one sibling.
type Order struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}

// ReorderRequest is the body of the reorder endpoints.
type ReorderRequest struct {
	Orders []Order `json:"orders"`
}

// MoveRequest is the body of the field move endpoint.
type MoveRequest struct {
	NewStepID     string `json:"newStepId"`
	NewOrderIndex int    `json:"newOrderIndex"`
}

// StepInput is the payload for creating a step.
type StepInput struct {
	StepNumber  string `json:"step_number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	OrderIndex  int    `json:"order_index"`
	IsVisible   *bool  `json:"is_visible,omitempty"`
	BEPType     string `json:"bep_type,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	DraftID     string `json:"draft_id,omitempty"`
}

// StepPatch carries the step attributes to change. Nil members are left alone.
type StepPatch struct {
	StepNumber  *string `json:"step_number,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	OrderIndex  *int    `json:"order_index,omitempty"`
	IsVisible   *bool   `json:"is_visible,omitempty"`
	BEPType     *string `json:"bep_type,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// Apply writes the non-nil members onto step.
func (p StepPatch) Apply(step Step) Step {
	if p.StepNumber != nil {
		step.StepNumber = Text(*p.StepNumber)
	}
	if p.Title != nil {
		step.Title = *p.Title
	}
	if p.Description != nil {
		step.Description = *p.Description
	}
	if p.Category != nil {
		step.Category = *p.Category
	}
	if p.OrderIndex != nil {
		step.OrderIndex = *p.OrderIndex
	}
	if p.IsVisible != nil {
		step.IsVisible = Flag(*p.IsVisible)
	}
	if p.BEPType != nil {
		step.BEPType = *p.BEPType
	}
	if p.Icon != nil {
		step.Icon = *p.Icon
	}
	return step
}

// FieldInput is the payload for creating a field.
type FieldInput struct {
	StepID       string         `json:"step_id"`
	FieldID      string         `json:"field_id"`
	Label        string         `json:"label"`
	Type         string         `json:"type"`
	OrderIndex   int            `json:"order_index"`
	IsRequired   bool           `json:"is_required"`
	IsVisible    *bool          `json:"is_visible,omitempty"`
	Placeholder  string         `json:"placeholder,omitempty"`
	HelpText     string         `json:"help_text,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	DefaultValue string         `json:"default_value,omitempty"`
	BEPType      string         `json:"bep_type,omitempty"`
	ProjectID    string         `json:"project_id,omitempty"`
	DraftID      string         `json:"draft_id,omitempty"`
}

// FieldPatch carries the field attributes to change. Nil members are left
// alone; a non-nil Config replaces the whole config.
type FieldPatch struct {
	FieldID      *string        `json:"field_id,omitempty"`
	Label        *string        `json:"label,omitempty"`
	Type         *string        `json:"type,omitempty"`
	OrderIndex   *int           `json:"order_index,omitempty"`
	IsRequired   *bool          `json:"is_required,omitempty"`
	IsVisible    *bool          `json:"is_visible,omitempty"`
	Placeholder  *string        `json:"placeholder,omitempty"`
	HelpText     *string        `json:"help_text,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	DefaultValue *string        `json:"default_value,omitempty"`
	BEPType      *string        `json:"bep_type,omitempty"`
}

// Apply writes the non-nil members onto field.
func (p FieldPatch) Apply(field Field) Field {
	if p.FieldID != nil {
		field.FieldID = *p.FieldID
	}
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Type != nil {
		field.Type = *p.Type
	}
	if p.OrderIndex != nil {
		field.OrderIndex = *p.OrderIndex
	}
	if p.IsRequired != nil {
		field.IsRequired = Flag(*p.IsRequired)
	}
	if p.IsVisible != nil {
		field.IsVisible = Flag(*p.IsVisible)
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.HelpText != nil {
		field.HelpText = *p.HelpText
	}
	if p.Config != nil {
		field.Config = Config(p.Config).Clone()
	}
	if p.DefaultValue != nil {
		field.DefaultValue = *p.DefaultValue
	}
	if p.BEPType != nil {
		field.BEPType = *p.BEPType
	}
	return field
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
