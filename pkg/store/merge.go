package store

import "github.com/goliatone/go-formstruct/pkg/structure"

// Each confirmed response is applied by exactly one of these handlers. Create
// and update replace wholesale, toggles merge the visibility flag only and
// moves take the server object with an explicit parent.

func replaceStep(steps []structure.Step, id string, confirmed structure.Step) {
	for idx := range steps {
		if steps[idx].ID == id {
			steps[idx] = confirmed
			return
		}
	}
}

func replaceField(fields []structure.Field, id string, confirmed structure.Field) {
	for idx := range fields {
		if fields[idx].ID == id {
			fields[idx] = confirmed
			return
		}
	}
}

func mergeStepVisibility(steps []structure.Step, id string, confirmed structure.Step) structure.Step {
	for idx := range steps {
		if steps[idx].ID == id {
			steps[idx].IsVisible = confirmed.IsVisible
			return steps[idx]
		}
	}
	return confirmed
}

func mergeFieldVisibility(fields []structure.Field, id string, confirmed structure.Field) structure.Field {
	for idx := range fields {
		if fields[idx].ID == id {
			fields[idx].IsVisible = confirmed.IsVisible
			return fields[idx].Clone()
		}
	}
	return confirmed
}

func mergeFieldMove(fields []structure.Field, id, stepID string, confirmed structure.Field) structure.Field {
	confirmed.StepID = stepID
	for idx := range fields {
		if fields[idx].ID == id {
			fields[idx] = confirmed
			return confirmed.Clone()
		}
	}
	return confirmed
}

func orderMap(orders []structure.Order) map[string]int {
	out := make(map[string]int, len(orders))
	for _, order := range orders {
		out[order.ID] = order.OrderIndex
	}
	return out
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := items[:0:0]
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
