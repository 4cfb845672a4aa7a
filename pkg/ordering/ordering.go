// Package ordering implements the pure parts of reordering and numbering:
// moving one sibling to a new position, producing the contiguous
// (id, order_index) set submitted to the backend, and deriving display
// numbers for visible fields.
package ordering

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// Move returns a copy of items with the element at from placed at to. It
// reports false, and returns nil, when either index is out of range or the
// move is a no-op.
func Move[T any](items []T, from, to int) ([]T, bool) {
	if from == to || from < 0 || to < 0 || from >= len(items) || to >= len(items) {
		return nil, false
	}
	out := make([]T, 0, len(items))
	moved := items[from]
	for idx, item := range items {
		if idx == from {
			continue
		}
		out = append(out, item)
	}
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, true
}

// Orders assigns contiguous positions 0..n-1 in slice order.
func Orders[T any](items []T, id func(T) string) []structure.Order {
	out := make([]structure.Order, len(items))
	for idx, item := range items {
		out[idx] = structure.Order{ID: id(item), OrderIndex: idx}
	}
	return out
}

// StepID and FieldID are id accessors for Orders.
func StepID(step structure.Step) string    { return step.ID }
func FieldID(field structure.Field) string { return field.ID }

// FieldNumber renders the display number of the field at index among the
// visible fields of a step.
func FieldNumber(stepNumber string, index int) string {
	return strings.TrimSpace(stepNumber) + "." + strconv.Itoa(index+1)
}

// Numbered pairs a field with its derived display number.
type Numbered struct {
	Field  structure.Field
	Number string
}

// NumberFields numbers visible fields in the given order. The result is
// recomputed on every call.
func NumberFields(stepNumber string, visible []structure.Field) []Numbered {
	out := make([]Numbered, len(visible))
	for idx, field := range visible {
		out[idx] = Numbered{Field: field, Number: FieldNumber(stepNumber, idx)}
	}
	return out
}
