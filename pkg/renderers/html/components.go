package html

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/render"
	rendertemplate "github.com/goliatone/go-formstruct/pkg/render/template"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// Component writes the control markup for a field. The surrounding label,
// help text and error are rendered by the field template.
type Component func(env Env, props render.Props) (string, error)

// Env gives components access to the template engine.
type Env struct {
	Templates rendertemplate.TemplateRenderer
	InputID   string
}

const componentTemplates = "templates/components/"

func registerDefaults(reg *render.Registry[Component]) {
	reg.MustRegister(fieldtypes.ComponentRichText, richText)
	reg.MustRegister(fieldtypes.ComponentCheckboxGroup, checkboxGroup)
	reg.MustRegister(fieldtypes.ComponentEditableTable, editableTable)
	reg.MustRegister(fieldtypes.ComponentIntroTable, editableTable)
}

func richText(env Env, props render.Props) (string, error) {
	cfg := props.Config()
	rows := 3
	if n, ok := cfg["rows"].(float64); ok && n > 0 {
		rows = int(n)
	} else if n, ok := cfg["rows"].(int); ok && n > 0 {
		rows = n
	}
	return env.Templates.RenderTemplate(componentTemplates+"rich-text", map[string]any{
		"id":          env.InputID,
		"name":        props.Field.FieldID,
		"rows":        rows,
		"placeholder": props.Field.Placeholder,
		"required":    props.Field.Required(),
		"html":        SanitizeRichText(textValue(props.Value)),
	})
}

func checkboxGroup(env Env, props render.Props) (string, error) {
	selected := stringList(props.Value)
	options := make([]map[string]any, 0)
	for _, option := range props.Config().Options() {
		options = append(options, map[string]any{
			"value":   option.Value,
			"label":   option.Label,
			"checked": slices.Contains(selected, option.Value),
		})
	}
	return env.Templates.RenderTemplate(componentTemplates+"checkbox-group", map[string]any{
		"id":      env.InputID,
		"name":    props.Field.FieldID,
		"options": options,
	})
}

// editableTable serves both plain tables and intro tables. Rows are objects
// keyed by column label; intro tables wrap them as {intro, rows}.
func editableTable(env Env, props render.Props) (string, error) {
	cfg := props.Config()
	intro := props.Field.Type == fieldtypes.TypeIntroTable
	columns := cfg.Strings("columns")
	if intro {
		columns = cfg.Strings("tableColumns")
	}

	rawRows := props.Value
	var introValue string
	if intro {
		if wrapped, ok := props.Value.(map[string]any); ok {
			introValue = textValue(wrapped["intro"])
			rawRows = wrapped["rows"]
		}
	}

	rows := tableRows(rawRows, columns)
	if len(rows) == 0 {
		rows = tableRows([]any{map[string]any{}}, columns)
	}

	component := fieldtypes.ComponentEditableTable
	if intro {
		component = fieldtypes.ComponentIntroTable
	}
	return env.Templates.RenderTemplate(componentTemplates+"editable-table", map[string]any{
		"id":                env.InputID,
		"name":              props.Field.FieldID,
		"component":         component,
		"intro":             intro,
		"intro_placeholder": textValue(cfg["introPlaceholder"]),
		"intro_value":       introValue,
		"columns":           columns,
		"rows":              rows,
	})
}

func tableRows(value any, columns []string) [][]map[string]any {
	items, _ := value.([]any)
	out := make([][]map[string]any, 0, len(items))
	for idx, item := range items {
		row, _ := item.(map[string]any)
		cells := make([]map[string]any, 0, len(columns))
		for _, column := range columns {
			cells = append(cells, map[string]any{
				"row":    idx,
				"column": column,
				"value":  textValue(row[column]),
			})
		}
		out = append(out, cells)
	}
	return out
}

// Host renders a mount point for a component implemented client side. The
// config and current value travel as JSON data attributes.
func Host(env Env, props render.Props) (string, error) {
	config, err := json.Marshal(props.Config())
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	value, err := json.Marshal(props.Value)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return env.Templates.RenderTemplate(componentTemplates+"host", map[string]any{
		"id":        env.InputID,
		"name":      props.Field.FieldID,
		"component": props.Descriptor.Component,
		"config":    string(config),
		"value":     string(value),
	})
}

func stringList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case []any:
		return structure.Config{"v": typed}.Strings("v")
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	}
	return nil
}
