package render

import (
	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// Props is what a component receives. Components report edits through
// OnChange and never touch the structure itself.
type Props struct {
	Field      structure.Field
	Descriptor fieldtypes.Descriptor
	Number     string
	Value      any
	Error      string
	FormData   map[string]any
	OnChange   func(value any)
}

// Change reports value through OnChange when set.
func (p Props) Change(value any) {
	if p.OnChange != nil {
		p.OnChange(value)
	}
}

// Config returns the field config layered over the type defaults.
func (p Props) Config() structure.Config {
	merged := structure.Config(fieldtypes.DefaultConfig(p.Field.Type))
	for key, value := range p.Field.Config.Clone() {
		merged[key] = value
	}
	return merged
}
