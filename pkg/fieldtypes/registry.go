package fieldtypes

import (
	"slices"
	"sort"
)

// Type keys stored on fields.
const (
	TypeText                  = "text"
	TypeTextarea              = "textarea"
	TypeSelect                = "select"
	TypeCheckbox              = "checkbox"
	TypeTable                 = "table"
	TypeIntroTable            = "introTable"
	TypeStandardsTable        = "standardsTable"
	TypeMilestonesTable       = "milestones-table"
	TypeTimeline              = "timeline"
	TypeBudget                = "budget"
	TypeNamingConventions     = "naming-conventions"
	TypeFederationStrategy    = "federation-strategy"
	TypeTIDPReference         = "tidp-reference"
	TypeTIDPSection           = "tidp-section"
	TypeDeliverablesMatrix    = "deliverables-matrix"
	TypeIMActivitiesMatrix    = "im-activities-matrix"
	TypeOrgChart              = "orgchart"
	TypeOrgStructureDataTable = "orgstructure-data-table"
	TypeFileStructure         = "fileStructure"
	TypeCDEDiagram            = "cdeDiagram"
	TypeMindmap               = "mindmap"
	TypeSectionHeader         = "section-header"
	TypeStaticDiagram         = "static-diagram"
	TypeInfoBanner            = "info-banner"
	TypeImageUpload           = "image-upload"
)

// Component names a descriptor delegates to. Renderers register
// implementations under these names.
const (
	ComponentRichText           = "rich-text"
	ComponentCheckboxGroup      = "checkbox-group"
	ComponentEditableTable      = "editable-table"
	ComponentIntroTable         = "intro-table"
	ComponentStandardsTable     = "standards-table"
	ComponentMilestonesTable    = "milestones-table"
	ComponentTimeline           = "timeline"
	ComponentBudget             = "budget"
	ComponentNamingConventions  = "naming-conventions"
	ComponentFederationStrategy = "federation-strategy"
	ComponentTIDPReference      = "tidp-reference"
	ComponentTIDPSection        = "tidp-section"
	ComponentDeliverablesMatrix = "deliverables-matrix"
	ComponentIMActivitiesMatrix = "im-activities-matrix"
	ComponentOrgChart           = "org-chart"
	ComponentOrgDataTable       = "org-data-table"
	ComponentFolderStructure    = "folder-structure"
	ComponentCDEDiagram         = "cde-diagram"
	ComponentMindmap            = "mindmap"
	ComponentImageUpload        = "image-upload"
)

// Descriptor describes how a field type is edited and rendered.
type Descriptor struct {
	Type           string
	Category       Category
	Label          string
	Description    string
	Icon           string
	HasPlaceholder bool
	HasOptions     bool
	HasColumns     bool
	// IsFormField is false for decorative types that never hold a value.
	IsFormField bool
	// FullWidth is a layout hint: the field spans the whole row.
	FullWidth     bool
	DefaultConfig map[string]any
	// Component names the renderer to delegate to. Empty means inline.
	Component string
}

// Inline reports whether the type is rendered without a component.
func (d Descriptor) Inline() bool {
	return d.Component == ""
}

var registry = map[string]Descriptor{
	TypeText: {
		Category:       CategoryBasic,
		Label:          "Text Input",
		Description:    "Single line text input",
		Icon:           "Type",
		HasPlaceholder: true,
		IsFormField:    true,
	},
	TypeTextarea: {
		Category:       CategoryBasic,
		Label:          "Rich Text",
		Description:    "Multi-line rich text editor with formatting",
		Icon:           "AlignLeft",
		HasPlaceholder: true,
		IsFormField:    true,
		FullWidth:      true,
		DefaultConfig:  map[string]any{"rows": 3},
		Component:      ComponentRichText,
	},
	TypeSelect: {
		Category:      CategoryBasic,
		Label:         "Dropdown",
		Description:   "Single selection dropdown",
		Icon:          "ChevronDown",
		HasOptions:    true,
		IsFormField:   true,
		DefaultConfig: map[string]any{"options": []any{}},
	},
	TypeCheckbox: {
		Category:      CategoryBasic,
		Label:         "Checkbox Group",
		Description:   "Multiple selection checkboxes",
		Icon:          "CheckSquare",
		HasOptions:    true,
		IsFormField:   true,
		FullWidth:     true,
		DefaultConfig: map[string]any{"options": []any{}},
		Component:     ComponentCheckboxGroup,
	},

	TypeTable: {
		Category:      CategoryTable,
		Label:         "Table",
		Description:   "Editable table with dynamic rows",
		Icon:          "Table",
		HasColumns:    true,
		IsFormField:   true,
		FullWidth:     true,
		DefaultConfig: map[string]any{"columns": []any{"Column 1", "Column 2", "Column 3"}},
		Component:     ComponentEditableTable,
	},
	TypeIntroTable: {
		Category:       CategoryTable,
		Label:          "Text + Table",
		Description:    "Introduction text followed by a table",
		Icon:           "FileText",
		HasPlaceholder: true,
		HasColumns:     true,
		IsFormField:    true,
		FullWidth:      true,
		DefaultConfig: map[string]any{
			"introPlaceholder": "Enter introduction text...",
			"tableColumns":     []any{"Column 1", "Column 2"},
		},
		Component: ComponentIntroTable,
	},
	TypeStandardsTable: {
		Category:    CategoryTable,
		Label:       "Standards Table",
		Description: "Pre-configured table for standards references",
		Icon:        "BookOpen",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentStandardsTable,
	},
	TypeMilestonesTable: {
		Category:    CategoryTable,
		Label:       "Milestones Table",
		Description: "Project milestones with stages and dates",
		Icon:        "Calendar",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentMilestonesTable,
	},

	TypeTimeline: {
		Category:       CategorySpecialized,
		Label:          "Timeline",
		Description:    "Date range picker with visual timeline",
		Icon:           "Calendar",
		HasPlaceholder: true,
		IsFormField:    true,
		Component:      ComponentTimeline,
	},
	TypeBudget: {
		Category:       CategorySpecialized,
		Label:          "Budget",
		Description:    "Currency input with formatting",
		Icon:           "DollarSign",
		HasPlaceholder: true,
		IsFormField:    true,
		Component:      ComponentBudget,
	},
	TypeNamingConventions: {
		Category:    CategorySpecialized,
		Label:       "Naming Conventions",
		Description: "File naming pattern builder",
		Icon:        "FileSignature",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentNamingConventions,
	},
	TypeFederationStrategy: {
		Category:    CategorySpecialized,
		Label:       "Federation Strategy",
		Description: "Clash matrix and federation configuration",
		Icon:        "GitMerge",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentFederationStrategy,
	},
	TypeTIDPReference: {
		Category:    CategorySpecialized,
		Label:       "TIDP Reference",
		Description: "Link to TIDP/MIDP manager",
		Icon:        "Link",
		FullWidth:   true,
		Component:   ComponentTIDPReference,
	},
	TypeTIDPSection: {
		Category:       CategorySpecialized,
		Label:          "TIDP Section",
		Description:    "Text area with TIDP manager link",
		Icon:           "FileText",
		HasPlaceholder: true,
		IsFormField:    true,
		FullWidth:      true,
		Component:      ComponentTIDPSection,
	},
	TypeDeliverablesMatrix: {
		Category:      CategorySpecialized,
		Label:         "Deliverables Matrix",
		Description:   "Information deliverables responsibility matrix",
		Icon:          "Grid3X3",
		IsFormField:   true,
		FullWidth:     true,
		DefaultConfig: map[string]any{"matrixType": "deliverables"},
		Component:     ComponentDeliverablesMatrix,
	},
	TypeIMActivitiesMatrix: {
		Category:      CategorySpecialized,
		Label:         "IM Activities Matrix",
		Description:   "RACI matrix for ISO 19650-2 Annex A activities",
		Icon:          "Grid3X3",
		IsFormField:   true,
		FullWidth:     true,
		DefaultConfig: map[string]any{"matrixType": "im-activities"},
		Component:     ComponentIMActivitiesMatrix,
	},
	TypeImageUpload: {
		Category:    CategorySpecialized,
		Label:       "Image Upload",
		Description: "Upload image with preview and compression (PNG/JPG/SVG)",
		Icon:        "Image",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentImageUpload,
	},

	TypeOrgChart: {
		Category:    CategoryDiagram,
		Label:       "Org Chart",
		Description: "Interactive organizational structure chart",
		Icon:        "Users",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentOrgChart,
	},
	TypeOrgStructureDataTable: {
		Category:      CategoryDiagram,
		Label:         "Org Data Table",
		Description:   "Read-only table derived from org chart",
		Icon:          "Table",
		FullWidth:     true,
		DefaultConfig: map[string]any{"readOnly": true},
		Component:     ComponentOrgDataTable,
	},
	TypeFileStructure: {
		Category:    CategoryDiagram,
		Label:       "Folder Structure",
		Description: "Interactive folder hierarchy builder",
		Icon:        "Folder",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentFolderStructure,
	},
	TypeCDEDiagram: {
		Category:    CategoryDiagram,
		Label:       "CDE Diagram",
		Description: "Multi-platform CDE ecosystem diagram",
		Icon:        "Network",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentCDEDiagram,
	},
	TypeMindmap: {
		Category:    CategoryDiagram,
		Label:       "Mindmap",
		Description: "Hierarchical mindmap visualization",
		Icon:        "Share2",
		IsFormField: true,
		FullWidth:   true,
		Component:   ComponentMindmap,
	},

	TypeSectionHeader: {
		Category:    CategoryUtility,
		Label:       "Section Header",
		Description: "Non-input section divider",
		Icon:        "Heading",
		FullWidth:   true,
	},
	TypeStaticDiagram: {
		Category:      CategoryUtility,
		Label:         "Static Diagram",
		Description:   "Read-only diagram (document hierarchy or party interfaces)",
		Icon:          "GitBranch",
		FullWidth:     true,
		DefaultConfig: map[string]any{"diagramKey": "documentHierarchy"},
	},
	TypeInfoBanner: {
		Category:    CategoryUtility,
		Label:       "Info Banner",
		Description: "Styled information callout (no user input)",
		Icon:        "Info",
		FullWidth:   true,
	},
}

// Lookup returns the descriptor for key. Unknown keys report ok == false.
func Lookup(key string) (Descriptor, bool) {
	descriptor, ok := registry[key]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(key, descriptor), true
}

// IsValid reports whether key names a registered type.
func IsValid(key string) bool {
	_, ok := registry[key]
	return ok
}

// DefaultConfig returns a fresh copy of the default configuration for key, or
// an empty map when the type is unknown or has no defaults.
func DefaultConfig(key string) map[string]any {
	descriptor, ok := registry[key]
	if !ok || len(descriptor.DefaultConfig) == 0 {
		return map[string]any{}
	}
	return cloneConfig(descriptor.DefaultConfig)
}

// All returns every descriptor ordered by category then type key.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for key, descriptor := range registry {
		out = append(out, cloneDescriptor(key, descriptor))
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := categoryRank(out[i].Category), categoryRank(out[j].Category)
		if ri != rj {
			return ri < rj
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Group is one category with its descriptors.
type Group struct {
	CategoryInfo
	Types []Descriptor
}

// ByCategory groups all descriptors by category, in selector order. Empty
// categories are omitted.
func ByCategory() []Group {
	var groups []Group
	index := make(map[Category]int)
	for _, descriptor := range All() {
		pos, ok := index[descriptor.Category]
		if !ok {
			pos = len(groups)
			index[descriptor.Category] = pos
			groups = append(groups, Group{CategoryInfo: CategoryOf(descriptor.Category)})
		}
		groups[pos].Types = append(groups[pos].Types, descriptor)
	}
	return groups
}

// FullWidthTypes lists the type keys that span a full row, sorted.
func FullWidthTypes() []string {
	return filterKeys(func(d Descriptor) bool { return d.FullWidth })
}

// FormFieldTypes lists the type keys that carry a value, sorted.
func FormFieldTypes() []string {
	return filterKeys(func(d Descriptor) bool { return d.IsFormField })
}

func filterKeys(keep func(Descriptor) bool) []string {
	var keys []string
	for key, descriptor := range registry {
		if keep(descriptor) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

func cloneDescriptor(key string, src Descriptor) Descriptor {
	src.Type = key
	if src.DefaultConfig != nil {
		src.DefaultConfig = cloneConfig(src.DefaultConfig)
	}
	return src
}

func cloneConfig(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneConfig(typed)
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
