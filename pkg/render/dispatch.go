package render

import (
	"log/slog"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
)

// Resolution describes how to present one field type.
type Resolution struct {
	Descriptor fieldtypes.Descriptor
	// Known is false when the type is not in the table.
	Known bool
	// Component is the component to delegate to, or "" to render inline.
	Component string
	// Fallback asks the renderer for a generic text input.
	Fallback bool
}

// Dispatch resolves fieldType against the table alone. Unknown types resolve
// to the text input fallback and are logged with slog.Default().
func Dispatch(fieldType string) Resolution {
	return dispatch(fieldType, slog.Default(), nil)
}

func dispatch(fieldType string, logger *slog.Logger, registered func(string) bool) Resolution {
	descriptor, ok := fieldtypes.Lookup(fieldType)
	if !ok {
		logger.Warn("unknown field type, rendering text input", slog.String("type", fieldType))
		fallback, _ := fieldtypes.Lookup(fieldtypes.TypeText)
		return Resolution{Descriptor: fallback, Fallback: true}
	}
	res := Resolution{Descriptor: descriptor, Known: true}
	if descriptor.Component == "" {
		return res
	}
	if registered != nil && !registered(descriptor.Component) {
		logger.Debug("component not registered, rendering text input",
			slog.String("type", fieldType),
			slog.String("component", descriptor.Component),
		)
		res.Fallback = true
		return res
	}
	res.Component = descriptor.Component
	return res
}
