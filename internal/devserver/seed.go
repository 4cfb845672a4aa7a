package devserver

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

//go:embed seed/template.yaml
var seedFS embed.FS

// Seed is the default structure loaded into the template scope.
type Seed struct {
	Steps []SeedStep `json:"steps" yaml:"steps"`
}

// SeedStep is one template step with its fields.
type SeedStep struct {
	StepNumber  string      `json:"step_number" yaml:"step_number"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Category    string      `json:"category" yaml:"category"`
	Icon        string      `json:"icon" yaml:"icon"`
	BEPType     string      `json:"bep_type" yaml:"bep_type"`
	Hidden      bool        `json:"hidden" yaml:"hidden"`
	Fields      []SeedField `json:"fields" yaml:"fields"`
}

// SeedField is one template field.
type SeedField struct {
	FieldID     string         `json:"field_id" yaml:"field_id"`
	Label       string         `json:"label" yaml:"label"`
	Type        string         `json:"type" yaml:"type"`
	Required    bool           `json:"required" yaml:"required"`
	Hidden      bool           `json:"hidden" yaml:"hidden"`
	Placeholder string         `json:"placeholder" yaml:"placeholder"`
	HelpText    string         `json:"help_text" yaml:"help_text"`
	BEPType     string         `json:"bep_type" yaml:"bep_type"`
	Config      map[string]any `json:"config" yaml:"config"`
}

// DefaultSeed returns the embedded template.
func DefaultSeed() (Seed, error) {
	data, err := seedFS.ReadFile("seed/template.yaml")
	if err != nil {
		return Seed{}, fmt.Errorf("devserver: read embedded seed: %w", err)
	}
	return ParseSeed(data, "seed/template.yaml")
}

// LoadSeed reads a JSON or YAML seed file. An empty path returns the
// embedded template.
func LoadSeed(path string) (Seed, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("devserver: read seed: %w", err)
	}
	return ParseSeed(data, path)
}

// ParseSeed decodes and checks a seed document.
func ParseSeed(data []byte, source string) (Seed, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Seed{}, fmt.Errorf("devserver: seed %s is empty", source)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		seed = Seed{}
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return Seed{}, fmt.Errorf("devserver: parse seed %s: invalid JSON or YAML", source)
		}
	}
	for idx, step := range seed.Steps {
		if strings.TrimSpace(step.Title) == "" {
			return Seed{}, fmt.Errorf("devserver: seed %s step %d has no title", source, idx)
		}
		seen := make(map[string]struct{}, len(step.Fields))
		for _, field := range step.Fields {
			if field.FieldID == "" || field.Label == "" || field.Type == "" {
				return Seed{}, fmt.Errorf("devserver: seed %s step %q has a field without field_id, label or type", source, step.Title)
			}
			if _, dup := seen[field.FieldID]; dup {
				return Seed{}, fmt.Errorf("devserver: seed %s step %q repeats field %q", source, step.Title, field.FieldID)
			}
			seen[field.FieldID] = struct{}{}
		}
	}
	return seed, nil
}

// body converts a seed step into a create payload positioned at index.
func (s SeedStep) body(index int) stepBody {
	number := structure.Text(s.StepNumber)
	if number == "" {
		number = structure.Text(fmt.Sprint(index + 1))
	}
	visible := structure.Flag(!s.Hidden)
	return stepBody{
		StepNumber:  &number,
		Title:       &s.Title,
		Description: optional(s.Description),
		Category:    optional(s.Category),
		OrderIndex:  &index,
		IsVisible:   &visible,
		Icon:        optional(s.Icon),
		BEPType:     optional(s.BEPType),
	}
}

func (f SeedField) body(stepID string, index int) fieldBody {
	visible := structure.Flag(!f.Hidden)
	required := structure.Flag(f.Required)
	body := fieldBody{
		StepID:      &stepID,
		FieldID:     &f.FieldID,
		Label:       &f.Label,
		Type:        &f.Type,
		OrderIndex:  &index,
		IsVisible:   &visible,
		IsRequired:  &required,
		Placeholder: optional(f.Placeholder),
		HelpText:    optional(f.HelpText),
		BEPType:     optional(f.BEPType),
	}
	if len(f.Config) > 0 {
		raw, _ := json.Marshal(f.Config)
		body.Config = raw
	}
	return body
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
