package builder

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
)

// StepProgress summarises completion of one visible step.
type StepProgress struct {
	StepID   string
	Number   string
	Title    string
	Category string
	Required int
	Filled   int
	Complete bool
}

// CategoryProgress counts complete steps per category.
type CategoryProgress struct {
	Category  string
	Steps     int
	Completed int
}

// Progress summarises completion across the visible steps.
type Progress struct {
	Steps      []StepProgress
	Categories []CategoryProgress
	Completed  int
	Total      int
}

// Percent returns the share of complete steps, rounded down.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// Progress evaluates values, keyed by logical field name, against the visible
// structure. A step is complete when every visible, required, data-bearing
// field holds a non-empty value.
func (c *Context) Progress(values map[string]any) Progress {
	v := c.current()
	var out Progress
	categoryIndex := make(map[string]int)

	for _, step := range v.visibleSteps {
		entry := StepProgress{
			StepID:   step.ID,
			Number:   step.StepNumber.String(),
			Title:    step.Title,
			Category: DisplayCategory(step.Category),
		}
		for _, field := range filterFields(v.byStep[step.ID], true) {
			if !field.Required() || !dataBearing(field.Type) {
				continue
			}
			entry.Required++
			if HasValue(values[field.FieldID]) {
				entry.Filled++
			}
		}
		entry.Complete = entry.Filled == entry.Required
		out.Steps = append(out.Steps, entry)

		pos, ok := categoryIndex[entry.Category]
		if !ok {
			pos = len(out.Categories)
			categoryIndex[entry.Category] = pos
			out.Categories = append(out.Categories, CategoryProgress{Category: entry.Category})
		}
		out.Categories[pos].Steps++
		out.Total++
		if entry.Complete {
			out.Categories[pos].Completed++
			out.Completed++
		}
	}
	return out
}

// HasValue reports whether a submitted value counts as filled.
func HasValue(value any) bool {
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
	case fmt.Stringer:
		return strings.TrimSpace(typed.String()) != ""
	default:
		return true
	}
}

// Unknown types render as text inputs and therefore carry data.
func dataBearing(fieldType string) bool {
	descriptor, ok := fieldtypes.Lookup(fieldType)
	if !ok {
		return true
	}
	return descriptor.IsFormField
}
