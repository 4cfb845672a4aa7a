package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/ordering"
	"github.com/goliatone/go-formstruct/pkg/render"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// Component drives the prompts for one component and reports the result
// through props.OnChange. Leaving OnChange uncalled keeps the current value.
type Component func(ctx context.Context, driver PromptDriver, props render.Props) error

// Renderer fills step values interactively.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	logger       *slog.Logger
	components   *render.Registry[Component]
	overrides    map[string]Component
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}

	r.components = render.NewRegistry[Component](r.logger)
	registerDefaults(r.components)
	for name, component := range r.overrides {
		r.components.Override(name, component)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Encode.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Fill prompts through every visible step of snapshot in order. values seeds
// the defaults and is not modified.
func (r *Renderer) Fill(ctx context.Context, snapshot structure.Snapshot, values map[string]any) (map[string]any, error) {
	steps := slices.Clone(snapshot.Steps)
	structure.SortSteps(steps)

	out := maps.Clone(values)
	if out == nil {
		out = map[string]any{}
	}
	for _, step := range steps {
		if !step.Visible() {
			continue
		}
		filled, err := r.FillStep(ctx, step, structure.FieldsOf(snapshot.Fields, step.ID), out)
		if err != nil {
			return nil, err
		}
		out = filled
	}
	return out, nil
}

// FillStep prompts for each visible field of step. Required data bearing
// fields are asked again until they hold a value.
func (r *Renderer) FillStep(ctx context.Context, step structure.Step, fields []structure.Field, values map[string]any) (map[string]any, error) {
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := maps.Clone(values)
	if out == nil {
		out = map[string]any{}
	}

	sorted := slices.Clone(fields)
	structure.SortFields(sorted)
	visible := sorted[:0:0]
	for _, field := range sorted {
		if field.Visible() {
			visible = append(visible, field)
		}
	}

	header := fmt.Sprintf("%s%s. %s", r.theme.StepPrefix, step.StepNumber, step.Title)
	if err := r.driver.Info(ctx, header); err != nil {
		return nil, err
	}

	for _, numbered := range ordering.NumberFields(step.StepNumber.String(), visible) {
		if err := r.promptField(ctx, numbered, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Renderer) promptField(ctx context.Context, numbered ordering.Numbered, values map[string]any) error {
	field := numbered.Field
	res, component, hasComponent := r.components.Resolve(field.Type)
	props := render.Props{
		Field:      field,
		Descriptor: res.Descriptor,
		Number:     numbered.Number,
		FormData:   values,
	}

	// Types that never hold a value are printed, not prompted.
	if res.Known && !res.Descriptor.IsFormField {
		return r.info(ctx, decorative(field, numbered.Number, props))
	}
	if !hasComponent {
		component = textInput
		if !res.Fallback && field.Type == fieldtypes.TypeSelect {
			component = selectInput
		}
	}

	for {
		props.Value = values[field.FieldID]
		props.OnChange = func(value any) {
			values[field.FieldID] = value
		}
		if err := component(ctx, r.driver, props); err != nil {
			if errors.Is(err, ErrSkipped) {
				return nil
			}
			return err
		}
		if !field.Required() || !res.Descriptor.IsFormField || hasValue(values[field.FieldID]) {
			return nil
		}

		if err := r.info(ctx, fmt.Sprintf("%s%s is required", r.theme.ErrorPrefix, field.Label)); err != nil {
			return err
		}
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func decorative(field structure.Field, number string, props render.Props) string {
	switch field.Type {
	case fieldtypes.TypeSectionHeader:
		return "== " + field.Label + " =="
	case fieldtypes.TypeStaticDiagram:
		return fmt.Sprintf("%s %s [diagram: %v]", number, field.Label, props.Config()["diagramKey"])
	}
	if field.HelpText != "" {
		return field.Label + ": " + field.HelpText
	}
	return field.Label
}

func label(props render.Props) string {
	return props.Number + " " + props.Field.Label
}

func hasValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case []string:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	}
	return true
}
