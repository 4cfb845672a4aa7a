package editor

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotEditing is returned by structural operations outside edit mode.
	ErrNotEditing = errors.New("editor: edit mode is off")
	// ErrDialogClosed is returned when saving a dialog that was closed.
	ErrDialogClosed = errors.New("editor: dialog is closed")
	// ErrNotFound is returned when an id does not name a loaded step or field.
	ErrNotFound = errors.New("editor: not found")
)

// Input names used as ValidationErrors keys.
const (
	InputFieldID    = "field_id"
	InputLabel      = "label"
	InputColumns    = "columns"
	InputStepNumber = "step_number"
	InputTitle      = "title"
	InputSubmit     = "submit"
)

// ValidationErrors maps an input name to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+v[key])
	}
	return "editor: " + strings.Join(parts, "; ")
}
