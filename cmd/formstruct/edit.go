package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/builder"
	"github.com/goliatone/go-formstruct/pkg/editor"
	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/renderers/tui"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// newPromptDriver is replaced in tests.
var newPromptDriver = tui.NewSurveyDriver

var errQuit = errors.New("quit")

const (
	stepCustomize = "Customize (copy template)"
	stepReset     = "Reset to default"
	stepAdd       = "Add step"
	stepFields    = "Edit fields of a step"
	stepRename    = "Rename step"
	stepMove      = "Move step"
	stepToggle    = "Toggle step visibility"
	stepDelete    = "Delete step"
	quit          = "Quit"

	fieldAdd      = "Add field"
	fieldRequired = "Toggle required"
	fieldToggle   = "Toggle field visibility"
	fieldReorder  = "Move field within step"
	fieldMove     = "Move field to another step"
	fieldDelete   = "Delete field"
	back          = "Back"
)

func editCommand(ctx context.Context, env *environment, args []string) error {
	cfg, logger, err := env.setup("edit", args, nil)
	if err != nil {
		return err
	}
	session, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	session.Builder.EnterEditMode()
	loop := &editLoop{
		builder: session.Builder,
		steps:   editor.NewStepEditor(session.Builder),
		driver:  newPromptDriver(env.stderr),
	}
	return loop.run(ctx)
}

type editLoop struct {
	builder *builder.Context
	steps   *editor.StepEditor
	driver  tui.PromptDriver
}

func (l *editLoop) run(ctx context.Context) error {
	for {
		state := l.builder.State()
		options := []string{stepAdd, stepFields, stepRename, stepMove, stepToggle, stepDelete}
		if state.Scope.Customizable() {
			if state.HasCustomStructure {
				options = append(options, stepReset)
			} else {
				options = append(options, stepCustomize)
			}
		}
		options = append(options, quit)

		choice, err := l.choose(ctx, fmt.Sprintf("Structure of %s", state.Scope), options)
		if err != nil {
			return err
		}
		err = l.stepAction(ctx, choice)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			if reportErr := l.report(ctx, err); reportErr != nil {
				return reportErr
			}
		}
	}
}

func (l *editLoop) stepAction(ctx context.Context, choice string) error {
	switch choice {
	case quit:
		return errQuit
	case stepCustomize:
		return l.steps.Customize(ctx)
	case stepReset:
		ok, err := l.driver.Confirm(ctx, tui.ConfirmConfig{Message: "Discard the custom structure?"})
		if err != nil || !ok {
			return err
		}
		return l.steps.Reset(ctx)
	case stepAdd:
		dialog, err := l.steps.Add()
		if err != nil {
			return err
		}
		if dialog.Values.Title, err = l.input(ctx, "Title", ""); err != nil {
			return err
		}
		if dialog.Values.Category, err = l.choose(ctx, "Category", []string{
			structure.CategoryCommercial, structure.CategoryManagement, structure.CategoryTechnical,
		}); err != nil {
			return err
		}
		_, err = dialog.Save(ctx)
		return err
	}

	idx, step, err := l.pickStep(ctx)
	if err != nil {
		return err
	}
	switch choice {
	case stepFields:
		return l.editFields(ctx, step)
	case stepRename:
		dialog, err := l.steps.Edit(step.ID)
		if err != nil {
			return err
		}
		if dialog.Values.Title, err = l.input(ctx, "Title", step.Title); err != nil {
			return err
		}
		_, err = dialog.Save(ctx)
		return err
	case stepMove:
		to, err := l.position(ctx, len(l.steps.Steps()))
		if err != nil {
			return err
		}
		_, err = l.steps.Reorder(ctx, idx, to)
		return err
	case stepToggle:
		_, err := l.steps.ToggleVisibility(ctx, step.ID)
		return err
	case stepDelete:
		ok, err := l.driver.Confirm(ctx, tui.ConfirmConfig{Message: fmt.Sprintf("Delete %q and its fields?", step.Title)})
		if err != nil || !ok {
			return err
		}
		return l.steps.Delete(ctx, step.ID)
	}
	return nil
}

func (l *editLoop) editFields(ctx context.Context, step structure.Step) error {
	fields := editor.NewFieldEditor(l.builder, step.ID)
	for {
		choice, err := l.choose(ctx, fmt.Sprintf("Fields of %s. %s", step.StepNumber, step.Title),
			[]string{fieldAdd, fieldRequired, fieldToggle, fieldReorder, fieldMove, fieldDelete, back})
		if err != nil {
			return err
		}
		if choice == back {
			return nil
		}
		if err := l.fieldAction(ctx, fields, choice); err != nil {
			if reportErr := l.report(ctx, err); reportErr != nil {
				return reportErr
			}
		}
	}
}

func (l *editLoop) fieldAction(ctx context.Context, fields *editor.FieldEditor, choice string) error {
	if choice == fieldAdd {
		return l.addField(ctx, fields)
	}

	idx, field, err := l.pickField(ctx, fields)
	if err != nil {
		return err
	}
	switch choice {
	case fieldRequired:
		_, err = fields.ToggleRequired(ctx, field.ID)
	case fieldToggle:
		_, err = fields.ToggleVisibility(ctx, field.ID)
	case fieldReorder:
		var to int
		if to, err = l.position(ctx, len(fields.Fields())); err == nil {
			_, err = fields.Reorder(ctx, idx, to)
		}
	case fieldMove:
		var target structure.Step
		if _, target, err = l.pickStep(ctx); err == nil {
			_, err = fields.MoveToStep(ctx, field.ID, target.ID)
		}
	case fieldDelete:
		var ok bool
		if ok, err = l.driver.Confirm(ctx, tui.ConfirmConfig{Message: fmt.Sprintf("Delete %q?", field.Label)}); err == nil && ok {
			err = fields.Delete(ctx, field.ID)
		}
	}
	return err
}

func (l *editLoop) addField(ctx context.Context, fields *editor.FieldEditor) error {
	dialog, err := fields.Add()
	if err != nil {
		return err
	}
	label, err := l.input(ctx, "Label", "")
	if err != nil {
		return err
	}
	dialog.SetLabel(label)

	descriptors := fieldtypes.All()
	names := make([]string, len(descriptors))
	for idx, descriptor := range descriptors {
		names[idx] = fmt.Sprintf("%s (%s)", descriptor.Label, descriptor.Type)
	}
	pick, err := l.driver.Select(ctx, tui.SelectConfig{Message: "Type", Options: names})
	if err != nil {
		return err
	}
	if pick < 0 || pick >= len(descriptors) {
		return fmt.Errorf("selection %d out of range", pick)
	}
	descriptor := descriptors[pick]
	dialog.SelectType(descriptor.Type)

	if descriptor.HasColumns {
		raw, err := l.input(ctx, "Columns (comma separated)", "")
		if err != nil {
			return err
		}
		key := "columns"
		if descriptor.Type == fieldtypes.TypeIntroTable {
			key = "tableColumns"
		}
		dialog.SetConfig(key, splitList(raw))
	}
	if descriptor.IsFormField {
		if dialog.Values.IsRequired, err = l.driver.Confirm(ctx, tui.ConfirmConfig{Message: "Required?"}); err != nil {
			return err
		}
	}

	_, err = dialog.Save(ctx)
	return err
}

func (l *editLoop) pickStep(ctx context.Context) (int, structure.Step, error) {
	steps := l.steps.Steps()
	if len(steps) == 0 {
		return 0, structure.Step{}, errors.New("no steps")
	}
	labels := make([]string, len(steps))
	for idx, step := range steps {
		labels[idx] = fmt.Sprintf("%s. %s", step.StepNumber, step.Title)
		if !step.Visible() {
			labels[idx] += " (hidden)"
		}
	}
	idx, err := l.driver.Select(ctx, tui.SelectConfig{Message: "Step", Options: labels})
	if err == nil && (idx < 0 || idx >= len(steps)) {
		err = fmt.Errorf("selection %d out of range", idx)
	}
	if err != nil {
		return 0, structure.Step{}, err
	}
	return idx, steps[idx], nil
}

func (l *editLoop) pickField(ctx context.Context, fields *editor.FieldEditor) (int, structure.Field, error) {
	list := fields.Fields()
	if len(list) == 0 {
		return 0, structure.Field{}, errors.New("step has no fields")
	}
	labels := make([]string, len(list))
	for idx, field := range list {
		labels[idx] = fmt.Sprintf("%s [%s]", field.Label, field.Type)
		if field.IsRequired {
			labels[idx] += " *"
		}
		if !field.Visible() {
			labels[idx] += " (hidden)"
		}
	}
	idx, err := l.driver.Select(ctx, tui.SelectConfig{Message: "Field", Options: labels})
	if err == nil && (idx < 0 || idx >= len(list)) {
		err = fmt.Errorf("selection %d out of range", idx)
	}
	if err != nil {
		return 0, structure.Field{}, err
	}
	return idx, list[idx], nil
}

func (l *editLoop) choose(ctx context.Context, message string, options []string) (string, error) {
	idx, err := l.driver.Select(ctx, tui.SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("selection %d out of range", idx)
	}
	return options[idx], nil
}

func (l *editLoop) input(ctx context.Context, message, def string) (string, error) {
	return l.driver.Input(ctx, tui.InputConfig{Message: message, Default: def})
}

// position asks for a 1-based position and returns it 0-based.
func (l *editLoop) position(ctx context.Context, count int) (int, error) {
	raw, err := l.driver.Input(ctx, tui.InputConfig{
		Message: fmt.Sprintf("New position (1-%d)", count),
		Validator: func(value string) error {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 1 || n > count {
				return fmt.Errorf("enter a number between 1 and %d", count)
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func (l *editLoop) report(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, tui.ErrAborted) {
		return err
	}
	return l.driver.Info(ctx, "Error: "+err.Error())
}

func splitList(raw string) []any {
	var out []any
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
