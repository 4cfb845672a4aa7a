package editor

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/store"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// FieldValues are the draft values held by a FieldDialog.
type FieldValues struct {
	FieldID     string
	Label       string
	Type        string
	Placeholder string
	HelpText    string
	IsRequired  bool
	Config      structure.Config
}

// FieldDialog creates or edits one field.
type FieldDialog struct {
	builder *builder.Context
	stepID  string
	editing *structure.Field

	Values FieldValues
	Errors ValidationErrors

	open        bool
	idFromLabel bool
}

// NewFieldDialog opens a dialog that creates a text field in stepID.
func NewFieldDialog(b *builder.Context, stepID string) *FieldDialog {
	d := &FieldDialog{
		builder:     b,
		stepID:      stepID,
		open:        true,
		idFromLabel: true,
		Errors:      ValidationErrors{},
	}
	d.SelectType(fieldtypes.TypeText)
	return d
}

// EditFieldDialog opens a dialog prefilled from field.
func EditFieldDialog(b *builder.Context, field structure.Field) *FieldDialog {
	editing := field.Clone()
	return &FieldDialog{
		builder: b,
		stepID:  field.StepID,
		editing: &editing,
		open:    true,
		Errors:  ValidationErrors{},
		Values: FieldValues{
			FieldID:     field.FieldID,
			Label:       field.Label,
			Type:        field.Type,
			Placeholder: field.Placeholder,
			HelpText:    field.HelpText,
			IsRequired:  field.Required(),
			Config:      field.Config.Clone(),
		},
	}
}

// Editing reports whether the dialog updates an existing field.
func (d *FieldDialog) Editing() bool { return d.editing != nil }

// IsOpen reports whether the dialog is still open.
func (d *FieldDialog) IsOpen() bool { return d.open }

// Close discards the dialog.
func (d *FieldDialog) Close() { d.open = false }

// SetLabel updates the label. While creating, the logical name follows the
// label until it is set by hand.
func (d *FieldDialog) SetLabel(label string) {
	d.Values.Label = label
	delete(d.Errors, InputLabel)
	if d.editing == nil && d.idFromLabel {
		d.Values.FieldID = GenerateFieldID(label)
		delete(d.Errors, InputFieldID)
	}
}

// SetFieldID sets the logical name explicitly.
func (d *FieldDialog) SetFieldID(id string) {
	d.Values.FieldID = id
	d.idFromLabel = strings.TrimSpace(id) == ""
	delete(d.Errors, InputFieldID)
}

// SelectType switches the field type and resets the config to the type
// defaults.
func (d *FieldDialog) SelectType(fieldType string) {
	d.Values.Type = fieldType
	d.Values.Config = structure.Config(fieldtypes.DefaultConfig(fieldType))
	delete(d.Errors, InputColumns)
}

// SetConfig sets one config key.
func (d *FieldDialog) SetConfig(key string, value any) {
	if d.Values.Config == nil {
		d.Values.Config = structure.Config{}
	}
	d.Values.Config[key] = value
	if key == "columns" || key == "tableColumns" {
		delete(d.Errors, InputColumns)
	}
}

// Validate checks the draft values and records messages in Errors.
func (d *FieldDialog) Validate() bool {
	errs := ValidationErrors{}
	id := strings.TrimSpace(d.Values.FieldID)
	switch {
	case id == "":
		errs[InputFieldID] = "Field ID is required"
	case !ValidFieldID(id):
		errs[InputFieldID] = "Field ID must start with a letter and contain only letters, numbers, and underscores"
	case d.fieldIDTaken(id):
		errs[InputFieldID] = "Field ID is already used by another field"
	}
	if strings.TrimSpace(d.Values.Label) == "" {
		errs[InputLabel] = "Label is required"
	}
	if descriptor, ok := fieldtypes.Lookup(d.Values.Type); ok && descriptor.HasColumns && len(d.columns()) == 0 {
		errs[InputColumns] = "At least one column is required"
	}
	d.Errors = errs
	return len(errs) == 0
}

// Save validates and creates or updates the field. Validation failures are
// returned as ValidationErrors; a rejected request keeps the dialog open with
// the message under Errors["submit"].
func (d *FieldDialog) Save(ctx context.Context) (structure.Field, error) {
	if !d.open {
		return structure.Field{}, ErrDialogClosed
	}
	if !d.builder.IsEditMode() {
		return structure.Field{}, ErrNotEditing
	}
	if !d.Validate() {
		return structure.Field{}, d.Errors
	}

	var (
		saved structure.Field
		err   error
	)
	if d.editing == nil {
		saved, err = d.builder.CreateField(ctx, structure.FieldInput{
			StepID:      d.stepID,
			FieldID:     strings.TrimSpace(d.Values.FieldID),
			Label:       strings.TrimSpace(d.Values.Label),
			Type:        d.Values.Type,
			OrderIndex:  NextOrderIndex(d.builder.FieldsForStep(d.stepID), fieldOrder),
			IsRequired:  d.Values.IsRequired,
			Placeholder: d.Values.Placeholder,
			HelpText:    d.Values.HelpText,
			Config:      d.Values.Config.Clone(),
		})
	} else {
		config := d.Values.Config.Clone()
		if config == nil {
			config = structure.Config{}
		}
		saved, err = d.builder.UpdateField(ctx, d.editing.ID, structure.FieldPatch{
			FieldID:     structure.Ptr(strings.TrimSpace(d.Values.FieldID)),
			Label:       structure.Ptr(strings.TrimSpace(d.Values.Label)),
			Type:        structure.Ptr(d.Values.Type),
			IsRequired:  structure.Ptr(d.Values.IsRequired),
			Placeholder: structure.Ptr(d.Values.Placeholder),
			HelpText:    structure.Ptr(d.Values.HelpText),
			Config:      config,
		})
	}
	if err != nil {
		d.Errors = ValidationErrors{InputSubmit: submitMessage(err)}
		return structure.Field{}, err
	}
	d.open = false
	return saved, nil
}

func (d *FieldDialog) columns() []string {
	if d.Values.Type == fieldtypes.TypeIntroTable {
		return d.Values.Config.Strings("tableColumns")
	}
	return d.Values.Config.Strings("columns")
}

// fieldIDTaken reports a clash with another field of the loaded scope.
func (d *FieldDialog) fieldIDTaken(id string) bool {
	for _, field := range d.builder.Fields() {
		if d.editing != nil && field.ID == d.editing.ID {
			continue
		}
		if field.FieldID == id {
			return true
		}
	}
	return false
}

func fieldOrder(field structure.Field) int { return field.OrderIndex }
func stepOrder(step structure.Step) int    { return step.OrderIndex }

func submitMessage(err error) string {
	var storeErr *store.Error
	if errors.As(err, &storeErr) && storeErr.Message != "" {
		return storeErr.Message
	}
	return err.Error()
}
