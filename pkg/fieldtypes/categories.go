package fieldtypes

// Category groups field types in the type selector.
type Category string

const (
	CategoryBasic       Category = "basic"
	CategoryTable       Category = "table"
	CategorySpecialized Category = "specialized"
	CategoryDiagram     Category = "diagram"
	CategoryUtility     Category = "utility"
)

// CategoryInfo carries display metadata for a category.
type CategoryInfo struct {
	Key         Category
	Name        string
	Description string
	Color       string
}

var categoryOrder = []Category{
	CategoryBasic,
	CategoryTable,
	CategorySpecialized,
	CategoryDiagram,
	CategoryUtility,
}

var categories = map[Category]CategoryInfo{
	CategoryBasic: {
		Key:         CategoryBasic,
		Name:        "Basic",
		Description: "Standard input fields",
		Color:       "blue",
	},
	CategoryTable: {
		Key:         CategoryTable,
		Name:        "Tables",
		Description: "Tabular data fields",
		Color:       "green",
	},
	CategorySpecialized: {
		Key:         CategorySpecialized,
		Name:        "Specialized",
		Description: "Domain-specific field types",
		Color:       "purple",
	},
	CategoryDiagram: {
		Key:         CategoryDiagram,
		Name:        "Diagrams",
		Description: "Visual builders and diagrams",
		Color:       "orange",
	},
	CategoryUtility: {
		Key:         CategoryUtility,
		Name:        "Utility",
		Description: "Layout and structural elements",
		Color:       "gray",
	},
}

// Categories returns category metadata in selector order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryOrder))
	for _, key := range categoryOrder {
		out = append(out, categories[key])
	}
	return out
}

// CategoryOf returns the metadata for key. Unknown categories get a generated
// entry so grouping never drops types.
func CategoryOf(key Category) CategoryInfo {
	if info, ok := categories[key]; ok {
		return info
	}
	return CategoryInfo{Key: key, Name: string(key)}
}

func categoryRank(key Category) int {
	for idx, candidate := range categoryOrder {
		if candidate == key {
			return idx
		}
	}
	return len(categoryOrder)
}
