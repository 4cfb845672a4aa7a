package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

// MustLoadStructure reads a nested structure fixture (steps with embedded
// fields) and fails the test on error.
func MustLoadStructure(t *testing.T, path string) []structure.StepTree {
	t.Helper()

	tree, err := LoadStructure(path)
	if err != nil {
		t.Fatalf("load structure: %v", err)
	}
	return tree
}

// LoadStructure reads a nested structure fixture without requiring testing.T.
func LoadStructure(path string) ([]structure.StepTree, error) {
	if path == "" {
		return nil, errors.New("testsupport: structure path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read structure: %w", err)
	}
	var out []structure.StepTree
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal structure: %w", err)
	}
	return out, nil
}

// Template returns a two step structure: "Project Info" with three fields and
// a hidden "Appendices" step with one field.
func Template() []structure.StepTree {
	return []structure.StepTree{
		{
			Step: structure.Step{
				ID:          "step-1",
				StepNumber:  "1",
				Title:       "Project Info",
				Description: "Basic project information",
				Category:    structure.CategoryCommercial,
				OrderIndex:  0,
				IsVisible:   true,
				BEPType:     structure.DocumentBoth,
			},
			Fields: []structure.Field{
				{ID: "field-1", StepID: "step-1", FieldID: "projectName", Label: "Project Name", Type: "text", OrderIndex: 0, IsRequired: true, IsVisible: true, Placeholder: "Enter project name"},
				{ID: "field-2", StepID: "step-1", FieldID: "projectDescription", Label: "Project Description", Type: "textarea", OrderIndex: 1, IsVisible: true, Config: structure.Config{"rows": float64(3)}},
				{ID: "field-3", StepID: "step-1", FieldID: "projectType", Label: "Project Type", Type: "select", OrderIndex: 2, IsRequired: true, IsVisible: true, Config: structure.Config{"options": []any{"Office", "Residential"}}},
			},
		},
		{
			Step: structure.Step{
				ID:         "step-2",
				StepNumber: "2",
				Title:      "Appendices",
				Category:   structure.CategoryManagement,
				OrderIndex: 1,
				IsVisible:  false,
				BEPType:    structure.DocumentBoth,
			},
			Fields: []structure.Field{
				{ID: "field-4", StepID: "step-2", FieldID: "appendixNotes", Label: "Notes", Type: "textarea", OrderIndex: 0, IsVisible: true},
			},
		},
	}
}

// FieldTypes returns a small catalogue as served by /field-types.
func FieldTypes() []structure.FieldTypeInfo {
	return []structure.FieldTypeInfo{
		{Type: "text", Label: "Text Input", Category: "basic", Icon: "Type", HasPlaceholder: true},
		{Type: "textarea", Label: "Rich Text", Category: "basic", Icon: "AlignLeft", HasPlaceholder: true},
		{Type: "select", Label: "Dropdown", Category: "basic", Icon: "ChevronDown", HasOptions: true},
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
