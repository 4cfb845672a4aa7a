package devserver

import (
	"encoding/json"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// stepRow is a stored step. Flags are 0/1 integers and optional columns are
// null, the way a relational backend serialises them.
type stepRow struct {
	ID          string  `json:"id"`
	ProjectID   *string `json:"project_id"`
	DraftID     *string `json:"draft_id"`
	StepNumber  string  `json:"step_number"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	OrderIndex  int     `json:"order_index"`
	IsVisible   int     `json:"is_visible"`
	Icon        *string `json:"icon"`
	BEPType     string  `json:"bep_type"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	IsDeleted   int     `json:"is_deleted"`
}

type fieldRow struct {
	ID           string         `json:"id"`
	ProjectID    *string        `json:"project_id"`
	DraftID      *string        `json:"draft_id"`
	StepID       string         `json:"step_id"`
	FieldID      string         `json:"field_id"`
	Label        string         `json:"label"`
	Type         string         `json:"type"`
	Number       *string        `json:"number"`
	OrderIndex   int            `json:"order_index"`
	IsVisible    int            `json:"is_visible"`
	IsRequired   int            `json:"is_required"`
	Placeholder  *string        `json:"placeholder"`
	HelpText     *string        `json:"help_text"`
	Config       map[string]any `json:"config"`
	DefaultValue *string        `json:"default_value"`
	BEPType      string         `json:"bep_type"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	IsDeleted    int            `json:"is_deleted"`
}

type stepTree struct {
	stepRow
	Fields []fieldRow `json:"fields"`
}

func (r *stepRow) clone() stepRow {
	return *r
}

func (r *fieldRow) clone() fieldRow {
	out := *r
	out.Config = structure.Config(r.Config).Clone()
	return out
}

// stepBody is a create or update payload. Absent members are nil.
type stepBody struct {
	StepNumber  *structure.Text `json:"step_number"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	OrderIndex  *int            `json:"order_index"`
	IsVisible   *structure.Flag `json:"is_visible"`
	Icon        *string         `json:"icon"`
	BEPType     *string         `json:"bep_type"`
	ProjectID   *string         `json:"project_id"`
	DraftID     *string         `json:"draft_id"`
}

// fieldBody is a create or update payload. Config stays raw so an explicit
// null can clear it.
type fieldBody struct {
	StepID       *string         `json:"step_id"`
	FieldID      *string         `json:"field_id"`
	Label        *string         `json:"label"`
	Type         *string         `json:"type"`
	Number       *structure.Text `json:"number"`
	OrderIndex   *int            `json:"order_index"`
	IsVisible    *structure.Flag `json:"is_visible"`
	IsRequired   *structure.Flag `json:"is_required"`
	Placeholder  *string         `json:"placeholder"`
	HelpText     *string         `json:"help_text"`
	Config       json.RawMessage `json:"config"`
	DefaultValue *string         `json:"default_value"`
	BEPType      *string         `json:"bep_type"`
	ProjectID    *string         `json:"project_id"`
	DraftID      *string         `json:"draft_id"`
}

func (b fieldBody) config() (map[string]any, bool) {
	if len(b.Config) == 0 {
		return nil, false
	}
	var cfg structure.Config
	if err := json.Unmarshal(b.Config, &cfg); err != nil {
		return nil, true
	}
	return cfg, true
}

func flagInt(f structure.Flag) int {
	if f {
		return 1
	}
	return 0
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	out := *s
	return &out
}
