package structure

import (
	"cmp"
	"slices"
)

// Snapshot is the complete structure of one scope.
type Snapshot struct {
	Steps  []Step
	Fields []Field
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Steps:  slices.Clone(s.Steps),
		Fields: make([]Field, len(s.Fields)),
	}
	for idx, field := range s.Fields {
		out.Fields[idx] = field.Clone()
	}
	if s.Fields == nil {
		out.Fields = nil
	}
	return out
}

// StepTree is a step with its embedded fields as returned by structure loads.
type StepTree struct {
	Step
	Fields []Field `json:"fields"`
}

// Flatten turns a nested structure into a snapshot. Every field is owned by
// the step it is nested under, whatever step_id it carried. Both lists come
// back sorted.
func Flatten(tree []StepTree) Snapshot {
	snapshot := Snapshot{
		Steps:  make([]Step, 0, len(tree)),
		Fields: []Field{},
	}
	for _, node := range tree {
		snapshot.Steps = append(snapshot.Steps, node.Step)
		for _, field := range node.Fields {
			field.StepID = node.ID
			snapshot.Fields = append(snapshot.Fields, field)
		}
	}
	SortSteps(snapshot.Steps)
	SortFields(snapshot.Fields)
	return snapshot
}

// Nest is the inverse of Flatten. Fields whose step is absent are dropped.
func Nest(snapshot Snapshot) []StepTree {
	steps := slices.Clone(snapshot.Steps)
	SortSteps(steps)
	fields := slices.Clone(snapshot.Fields)
	SortFields(fields)

	out := make([]StepTree, 0, len(steps))
	index := make(map[string]int, len(steps))
	for _, step := range steps {
		index[step.ID] = len(out)
		out = append(out, StepTree{Step: step, Fields: []Field{}})
	}
	for _, field := range fields {
		pos, ok := index[field.StepID]
		if !ok {
			continue
		}
		out[pos].Fields = append(out[pos].Fields, field)
	}
	return out
}

// SortSteps orders steps by (order_index, id) in place.
func SortSteps(steps []Step) {
	slices.SortStableFunc(steps, func(a, b Step) int {
		return cmp.Or(cmp.Compare(a.OrderIndex, b.OrderIndex), cmp.Compare(a.ID, b.ID))
	})
}

// SortFields orders fields by (order_index, id) in place.
func SortFields(fields []Field) {
	slices.SortStableFunc(fields, func(a, b Field) int {
		return cmp.Or(cmp.Compare(a.OrderIndex, b.OrderIndex), cmp.Compare(a.ID, b.ID))
	})
}

// FieldsOf returns the fields of one step in sibling order.
func FieldsOf(fields []Field, stepID string) []Field {
	out := make([]Field, 0)
	for _, field := range fields {
		if field.StepID == stepID {
			out = append(out, field)
		}
	}
	SortFields(out)
	return out
}
