package html

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/ordering"
	"github.com/goliatone/go-formstruct/pkg/render"
	rendertemplate "github.com/goliatone/go-formstruct/pkg/render/template"
	"github.com/goliatone/go-formstruct/pkg/render/template/pongo"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// Input carries per field values and validation messages keyed by the
// logical field name (field_id).
type Input struct {
	Values map[string]any
	Errors map[string]string
}

// Renderer turns steps and fields into HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *render.Registry[Component]
	title      string
	logger     *slog.Logger
}

// New builds a Renderer with the embedded templates and built-in components.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure templates: %w", err)
		}
		templates = engine
	}

	components := render.NewRegistry[Component](cfg.logger)
	registerDefaults(components)
	if cfg.hosted {
		for _, descriptor := range fieldtypes.All() {
			if descriptor.Component != "" && !components.Has(descriptor.Component) {
				components.Override(descriptor.Component, Host)
			}
		}
	}
	for name, component := range cfg.components {
		components.Override(name, component)
	}

	return &Renderer{
		templates:  templates,
		components: components,
		title:      cfg.title,
		logger:     cfg.logger,
	}, nil
}

// ContentType reports the media type of rendered output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Components returns the names of registered components.
func (r *Renderer) Components() []string {
	return r.components.List()
}

// RenderDocument renders every visible step of snapshot in order, each with
// its visible fields.
func (r *Renderer) RenderDocument(ctx context.Context, snapshot structure.Snapshot, in Input) ([]byte, error) {
	steps := slices.Clone(snapshot.Steps)
	structure.SortSteps(steps)

	var rendered []string
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.Visible() {
			continue
		}
		html, err := r.renderStep(step, structure.FieldsOf(snapshot.Fields, step.ID), in)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, html)
	}

	out, err := r.templates.RenderTemplate("templates/document", map[string]any{
		"title": r.title,
		"steps": rendered,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render document: %w", err)
	}
	return []byte(out), nil
}

// RenderStep renders one step with the visible subset of fields.
func (r *Renderer) RenderStep(ctx context.Context, step structure.Step, fields []structure.Field, in Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := r.renderStep(step, fields, in)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

func (r *Renderer) renderStep(step structure.Step, fields []structure.Field, in Input) (string, error) {
	sorted := slices.Clone(fields)
	structure.SortFields(sorted)
	visible := sorted[:0:0]
	for _, field := range sorted {
		if field.Visible() {
			visible = append(visible, field)
		}
	}

	rendered := make([]string, 0, len(visible))
	for _, numbered := range ordering.NumberFields(step.StepNumber.String(), visible) {
		html, err := r.RenderField(numbered.Field, numbered.Number, in)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, html)
	}

	out, err := r.templates.RenderTemplate("templates/step", map[string]any{
		"step":     step,
		"category": structure.DisplayCategory(step.Category),
		"fields":   rendered,
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: render step %s: %w", step.ID, err)
	}
	return out, nil
}

// RenderField renders a single field. Unknown types and components without
// an implementation become text inputs.
func (r *Renderer) RenderField(field structure.Field, number string, in Input) (string, error) {
	res, component, ok := r.components.Resolve(field.Type)
	props := render.Props{
		Field:      field,
		Descriptor: res.Descriptor,
		Number:     number,
		Value:      in.Values[field.FieldID],
		Error:      in.Errors[field.FieldID],
		FormData:   in.Values,
	}

	view := map[string]any{
		"type":        field.Type,
		"name":        field.FieldID,
		"input_id":    inputID(field),
		"number":      number,
		"label":       field.Label,
		"required":    field.Required(),
		"placeholder": field.Placeholder,
		"help_text":   field.HelpText,
		"error":       props.Error,
		"full_width":  res.Descriptor.FullWidth,
		"value":       textValue(props.Value),
		"kind":        inlineKind(res),
	}

	switch {
	case ok:
		html, err := component(Env{Templates: r.templates, InputID: inputID(field)}, props)
		if err != nil {
			return "", fmt.Errorf("html renderer: component %s for %s: %w", res.Component, field.FieldID, err)
		}
		view["kind"] = "component"
		view["html"] = html
	case view["kind"] == "select":
		view["options"] = selectOptions(props.Config().Options(), textValue(props.Value))
	case view["kind"] == "diagram":
		view["diagram"] = fmt.Sprint(props.Config()["diagramKey"])
	}

	out, err := r.templates.RenderTemplate("templates/field", map[string]any{"field": view})
	if err != nil {
		return "", fmt.Errorf("html renderer: render field %s: %w", field.FieldID, err)
	}
	return out, nil
}

func inlineKind(res render.Resolution) string {
	if res.Fallback {
		return "input"
	}
	switch res.Descriptor.Type {
	case fieldtypes.TypeSelect:
		return "select"
	case fieldtypes.TypeSectionHeader:
		return "section"
	case fieldtypes.TypeInfoBanner:
		return "banner"
	case fieldtypes.TypeStaticDiagram:
		return "diagram"
	}
	return "input"
}

func selectOptions(options []structure.Option, selected string) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, option := range options {
		out = append(out, map[string]any{
			"value":    option.Value,
			"label":    option.Label,
			"selected": option.Value == selected,
		})
	}
	return out
}

func inputID(field structure.Field) string {
	if field.FieldID != "" {
		return "field-" + field.FieldID
	}
	return "field-" + field.ID
}

func textValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}
