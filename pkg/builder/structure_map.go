package builder

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/ordering"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// MapStep is one step in the structure map.
type MapStep struct {
	Step structure.Step
	// VisibleIndex is the position among visible steps, -1 when hidden.
	VisibleIndex int
	Fields       []ordering.Numbered
	HiddenFields int
}

// MapGroup is a run of steps sharing a category.
type MapGroup struct {
	Category string
	Steps    []MapStep
}

// StructureMap lists steps grouped by category, ordered by step number. Hidden
// steps are included while ShowHidden or edit mode is on. Each step carries
// its visible fields with derived numbers.
func (c *Context) StructureMap() []MapGroup {
	c.mu.Lock()
	includeHidden := c.showHidden || c.editMode
	c.mu.Unlock()

	v := c.current()
	visibleIndex := make(map[string]int, len(v.visibleSteps))
	for idx, step := range v.visibleSteps {
		visibleIndex[step.ID] = idx
	}

	display := v.visibleSteps
	if includeHidden {
		display = v.steps
	}
	ordered := slices.Clone(display)
	slices.SortStableFunc(ordered, compareStepNumber)

	var groups []MapGroup
	index := make(map[string]int)
	for _, step := range ordered {
		category := DisplayCategory(step.Category)
		pos, ok := index[category]
		if !ok {
			pos = len(groups)
			index[category] = pos
			groups = append(groups, MapGroup{Category: category})
		}

		owned := v.byStep[step.ID]
		visible := filterFields(owned, true)
		entry := MapStep{
			Step:         step,
			VisibleIndex: -1,
			Fields:       ordering.NumberFields(step.StepNumber.String(), visible),
			HiddenFields: len(owned) - len(visible),
		}
		if idx, ok := visibleIndex[step.ID]; ok {
			entry.VisibleIndex = idx
		}
		groups[pos].Steps = append(groups[pos].Steps, entry)
	}
	return groups
}

// DisplayCategory maps an empty category to "Other".
func DisplayCategory(category string) string {
	return structure.DisplayCategory(category)
}

// compareStepNumber orders numerically by step number when both parse, and
// by sibling order otherwise.
func compareStepNumber(a, b structure.Step) int {
	an, aErr := strconv.ParseFloat(strings.TrimSpace(a.StepNumber.String()), 64)
	bn, bErr := strconv.ParseFloat(strings.TrimSpace(b.StepNumber.String()), 64)
	if aErr == nil && bErr == nil && an != bn {
		return cmp.Compare(an, bn)
	}
	return cmp.Or(cmp.Compare(a.OrderIndex, b.OrderIndex), cmp.Compare(a.ID, b.ID))
}
