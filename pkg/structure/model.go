package structure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Step categories used by the default template. Other values are kept verbatim.
const (
	CategoryCommercial = "Commercial"
	CategoryManagement = "Management"
	CategoryTechnical  = "Technical"
	CategoryOther      = "Other"
)

// DisplayCategory maps an empty category to CategoryOther.
func DisplayCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return CategoryOther
	}
	return category
}

// Applicability tags.
const (
	DocumentPreAppointment  = "pre-appointment"
	DocumentPostAppointment = "post-appointment"
	DocumentBoth            = "both"
	FieldShared             = "shared"
)

// Step is one page of the wizard.
type Step struct {
	ID          string `json:"id"`
	StepNumber  Text   `json:"step_number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	OrderIndex  int    `json:"order_index"`
	IsVisible   Flag   `json:"is_visible"`
	BEPType     string `json:"bep_type,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	DraftID     string `json:"draft_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Visible reports the step visibility flag.
func (s Step) Visible() bool { return bool(s.IsVisible) }

// Field is one input on a step.
type Field struct {
	ID           string `json:"id"`
	StepID       string `json:"step_id"`
	FieldID      string `json:"field_id"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	OrderIndex   int    `json:"order_index"`
	IsRequired   Flag   `json:"is_required"`
	IsVisible    Flag   `json:"is_visible"`
	Placeholder  string `json:"placeholder,omitempty"`
	HelpText     string `json:"help_text,omitempty"`
	Config       Config `json:"config,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	BEPType      string `json:"bep_type,omitempty"`
	// Number is the legacy stored number. Display numbers are always derived.
	Number    Text   `json:"number,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	DraftID   string `json:"draft_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Visible reports the field visibility flag.
func (f Field) Visible() bool { return bool(f.IsVisible) }

// Required reports the field required flag.
func (f Field) Required() bool { return bool(f.IsRequired) }

// Clone returns a copy whose config does not alias the receiver.
func (f Field) Clone() Field {
	f.Config = f.Config.Clone()
	return f
}

// Flag is a boolean that also decodes the 0/1 integers some backends store.
type Flag bool

// UnmarshalJSON accepts true/false, 0/1, their string forms and null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		data = []byte(raw)
	}
	switch string(data) {
	case "true", "1":
		*f = true
		return nil
	case "false", "0", "":
		*f = false
		return nil
	}
	number, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("structure: invalid flag %q", data)
	}
	*f = number != 0
	return nil
}

// Text is a string that also decodes JSON numbers, used for step numbers
// stored either way.
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = Text(raw)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("structure: invalid text %q", data)
	}
	*t = Text(number.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Config is the free-form per-field configuration. Servers may deliver it as
// an object or as a JSON encoded string; invalid strings decode to an empty
// config.
type Config map[string]any

// UnmarshalJSON decodes objects, JSON strings holding objects and null.
func (c *Config) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			*c = Config{}
			return nil
		}
		*c = decoded
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		*c = Config{}
		return nil
	}
	*c = decoded
	return nil
}

// Clone deep copies nested maps and slices.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for key, value := range c {
		out[key] = cloneValue(value)
	}
	return out
}

// Strings returns the string items stored under key. Non-string items are
// formatted with %v.
func (c Config) Strings(key string) []string {
	raw, ok := c[key]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

// Option is a choice for select and checkbox fields.
type Option struct {
	Value string
	Label string
}

// Options returns the choices under "options". Items may be plain strings or
// objects carrying value/label.
func (c Config) Options() []Option {
	raw, ok := c["options"].([]any)
	if !ok {
		if strs, ok := c["options"].([]string); ok {
			out := make([]Option, 0, len(strs))
			for _, s := range strs {
				out = append(out, Option{Value: s, Label: s})
			}
			return out
		}
		return nil
	}
	out := make([]Option, 0, len(raw))
	for _, item := range raw {
		switch typed := item.(type) {
		case string:
			out = append(out, Option{Value: typed, Label: typed})
		case map[string]any:
			value := fmt.Sprint(typed["value"])
			label, _ := typed["label"].(string)
			if label == "" {
				label = value
			}
			out = append(out, Option{Value: value, Label: label})
		default:
			text := fmt.Sprint(typed)
			out = append(out, Option{Value: text, Label: text})
		}
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return map[string]any(Config(typed).Clone())
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}

// FieldTypeInfo is one entry of the server-side field type catalogue.
type FieldTypeInfo struct {
	Type           string `json:"type"`
	Label          string `json:"label"`
	Category       string `json:"category"`
	Icon           string `json:"icon,omitempty"`
	HasPlaceholder bool   `json:"hasPlaceholder,omitempty"`
	HasOptions     bool   `json:"hasOptions,omitempty"`
	HasColumns     bool   `json:"hasColumns,omitempty"`
	IsFormField    *bool  `json:"isFormField,omitempty"`
}
