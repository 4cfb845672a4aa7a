package editor

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// StepValues are the draft values held by a StepDialog.
type StepValues struct {
	StepNumber  string
	Title       string
	Description string
	Category    string
	BEPType     string
}

// StepDialog creates or edits one step.
type StepDialog struct {
	builder *builder.Context
	editing *structure.Step

	Values StepValues
	Errors ValidationErrors

	open bool
}

// NewStepDialog opens a dialog that appends a step. The number defaults to
// the next free position.
func NewStepDialog(b *builder.Context) *StepDialog {
	next := NextOrderIndex(b.Steps(), stepOrder)
	return &StepDialog{
		builder: b,
		open:    true,
		Errors:  ValidationErrors{},
		Values: StepValues{
			StepNumber: strconv.Itoa(next + 1),
			Category:   structure.CategoryManagement,
			BEPType:    structure.DocumentBoth,
		},
	}
}

// EditStepDialog opens a dialog prefilled from step.
func EditStepDialog(b *builder.Context, step structure.Step) *StepDialog {
	editing := step
	values := StepValues{
		StepNumber:  step.StepNumber.String(),
		Title:       step.Title,
		Description: step.Description,
		Category:    step.Category,
		BEPType:     step.BEPType,
	}
	if values.Category == "" {
		values.Category = structure.CategoryManagement
	}
	if values.BEPType == "" {
		values.BEPType = structure.DocumentBoth
	}
	return &StepDialog{
		builder: b,
		editing: &editing,
		open:    true,
		Errors:  ValidationErrors{},
		Values:  values,
	}
}

// Editing reports whether the dialog updates an existing step.
func (d *StepDialog) Editing() bool { return d.editing != nil }

// IsOpen reports whether the dialog is still open.
func (d *StepDialog) IsOpen() bool { return d.open }

// Close discards the dialog.
func (d *StepDialog) Close() { d.open = false }

// Validate checks the draft values and records messages in Errors.
func (d *StepDialog) Validate() bool {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Values.StepNumber) == "" {
		errs[InputStepNumber] = "Step number is required"
	}
	if strings.TrimSpace(d.Values.Title) == "" {
		errs[InputTitle] = "Title is required"
	}
	d.Errors = errs
	return len(errs) == 0
}

// Save validates and creates or updates the step.
func (d *StepDialog) Save(ctx context.Context) (structure.Step, error) {
	if !d.open {
		return structure.Step{}, ErrDialogClosed
	}
	if !d.builder.IsEditMode() {
		return structure.Step{}, ErrNotEditing
	}
	if !d.Validate() {
		return structure.Step{}, d.Errors
	}

	var (
		saved structure.Step
		err   error
	)
	number := strings.TrimSpace(d.Values.StepNumber)
	title := strings.TrimSpace(d.Values.Title)
	if d.editing == nil {
		saved, err = d.builder.CreateStep(ctx, structure.StepInput{
			StepNumber:  number,
			Title:       title,
			Description: d.Values.Description,
			Category:    d.Values.Category,
			OrderIndex:  NextOrderIndex(d.builder.Steps(), stepOrder),
			BEPType:     d.Values.BEPType,
		})
	} else {
		saved, err = d.builder.UpdateStep(ctx, d.editing.ID, structure.StepPatch{
			StepNumber:  structure.Ptr(number),
			Title:       structure.Ptr(title),
			Description: structure.Ptr(d.Values.Description),
			Category:    structure.Ptr(d.Values.Category),
			BEPType:     structure.Ptr(d.Values.BEPType),
		})
	}
	if err != nil {
		d.Errors = ValidationErrors{InputSubmit: submitMessage(err)}
		return structure.Step{}, err
	}
	d.open = false
	return saved, nil
}
