package store

import (
	"slices"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// State is a point-in-time copy of the store. Revision increases whenever the
// snapshot changes, so derived views can be cached against it.
type State struct {
	Scope              structure.Scope
	Steps              []structure.Step
	Fields             []structure.Field
	FieldTypes         []structure.FieldTypeInfo
	Loading            bool
	Err                error
	HasCustomStructure bool
	Revision           uint64
}

// Snapshot returns the steps and fields as a structure.Snapshot.
func (s State) Snapshot() structure.Snapshot {
	return structure.Snapshot{Steps: s.Steps, Fields: s.Fields}
}

// Message returns the recorded error message, or "".
func (s State) Message() string {
	if s.Err == nil {
		return ""
	}
	if storeErr, ok := s.Err.(*Error); ok {
		return storeErr.Message
	}
	return s.Err.Error()
}

func (s State) clone() State {
	snapshot := structure.Snapshot{Steps: s.Steps, Fields: s.Fields}.Clone()
	s.Steps = snapshot.Steps
	s.Fields = snapshot.Fields
	s.FieldTypes = slices.Clone(s.FieldTypes)
	return s
}
