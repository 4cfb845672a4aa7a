package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/render"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

const noneOption = "(none)"

// registerDefaults wires the prompt flows a terminal can offer. Every other
// component is edited elsewhere and only announced.
func registerDefaults(reg *render.Registry[Component]) {
	reg.MustRegister(fieldtypes.ComponentRichText, richText)
	reg.MustRegister(fieldtypes.ComponentTIDPSection, richText)
	reg.MustRegister(fieldtypes.ComponentCheckboxGroup, checkboxGroup)
	reg.MustRegister(fieldtypes.ComponentEditableTable, editableTable)
	for _, descriptor := range fieldtypes.All() {
		if descriptor.Component != "" && !reg.Has(descriptor.Component) {
			reg.MustRegister(descriptor.Component, external)
		}
	}
}

func external(ctx context.Context, driver PromptDriver, props render.Props) error {
	state := "empty"
	if hasValue(props.Value) {
		state = "kept"
	}
	if err := driver.Info(ctx, fmt.Sprintf("%s: %s editor is not available in the terminal, value %s",
		label(props), props.Descriptor.Label, state)); err != nil {
		return err
	}
	return ErrSkipped
}

func textInput(ctx context.Context, driver PromptDriver, props render.Props) error {
	answer, err := driver.Input(ctx, InputConfig{
		Message: label(props),
		Default: stringValue(props.Value),
		Help:    help(props),
	})
	if err != nil {
		return err
	}
	props.Change(strings.TrimSpace(answer))
	return nil
}

func selectInput(ctx context.Context, driver PromptDriver, props render.Props) error {
	var choices []string
	if !props.Field.Required() {
		choices = append(choices, noneOption)
	}
	values := make([]string, 0)
	for _, option := range props.Config().Options() {
		choices = append(choices, option.Label)
		values = append(values, option.Value)
	}
	offset := len(choices) - len(values)

	current := stringValue(props.Value)
	defaultIndex := 0
	if idx := slices.Index(values, current); idx >= 0 {
		defaultIndex = idx + offset
	}

	idx, err := driver.Select(ctx, SelectConfig{
		Message:      label(props),
		Options:      choices,
		DefaultIndex: defaultIndex,
		Help:         help(props),
	})
	if err != nil {
		return err
	}
	switch {
	case idx < offset || idx >= len(choices):
		props.Change("")
	default:
		props.Change(values[idx-offset])
	}
	return nil
}

func richText(ctx context.Context, driver PromptDriver, props render.Props) error {
	answer, err := driver.TextArea(ctx, TextAreaConfig{
		Message: label(props),
		Default: stringValue(props.Value),
		Help:    help(props),
	})
	if err != nil {
		return err
	}
	props.Change(answer)
	return nil
}

func checkboxGroup(ctx context.Context, driver PromptDriver, props render.Props) error {
	options := props.Config().Options()
	labels := make([]string, 0, len(options))
	var defaults []int
	selected := structure.Config{"v": props.Value}.Strings("v")
	for idx, option := range options {
		labels = append(labels, option.Label)
		if slices.Contains(selected, option.Value) {
			defaults = append(defaults, idx)
		}
	}

	picked, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  label(props),
		Options:  labels,
		Defaults: defaults,
		Help:     help(props),
	})
	if err != nil {
		return err
	}
	out := make([]any, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx].Value)
		}
	}
	props.Change(out)
	return nil
}

// editableTable asks for each cell of a row and offers another row until the
// user declines. Existing rows are replaced.
func editableTable(ctx context.Context, driver PromptDriver, props render.Props) error {
	columns := props.Config().Strings("columns")
	if len(columns) == 0 {
		return driver.Info(ctx, label(props)+": table has no columns, skipped")
	}

	var rows []any
	for {
		row := make(map[string]any, len(columns))
		for _, column := range columns {
			answer, err := driver.Input(ctx, InputConfig{
				Message: fmt.Sprintf("%s, row %d, %s", label(props), len(rows)+1, column),
			})
			if err != nil {
				return err
			}
			row[column] = strings.TrimSpace(answer)
		}
		rows = append(rows, row)

		more, err := driver.Confirm(ctx, ConfirmConfig{Message: "Add another row?"})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	props.Change(rows)
	return nil
}

func help(props render.Props) string {
	if props.Field.HelpText != "" {
		return props.Field.HelpText
	}
	return props.Field.Placeholder
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	}
	return fmt.Sprint(value)
}
