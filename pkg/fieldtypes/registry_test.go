package fieldtypes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup_KnownTypes(t *testing.T) {
	cases := []struct {
		key       string
		category  Category
		component string
		form      bool
		full      bool
	}{
		{key: TypeText, category: CategoryBasic, form: true},
		{key: TypeTextarea, category: CategoryBasic, component: ComponentRichText, form: true, full: true},
		{key: TypeSelect, category: CategoryBasic, form: true},
		{key: TypeTable, category: CategoryTable, component: ComponentEditableTable, form: true, full: true},
		{key: TypeTIDPReference, category: CategorySpecialized, component: ComponentTIDPReference, full: true},
		{key: TypeOrgStructureDataTable, category: CategoryDiagram, component: ComponentOrgDataTable, full: true},
		{key: TypeSectionHeader, category: CategoryUtility, full: true},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			descriptor, ok := Lookup(tc.key)
			if !ok {
				t.Fatalf("expected %q to be registered", tc.key)
			}
			if descriptor.Type != tc.key {
				t.Fatalf("descriptor type = %q, want %q", descriptor.Type, tc.key)
			}
			if descriptor.Category != tc.category {
				t.Fatalf("category = %q, want %q", descriptor.Category, tc.category)
			}
			if descriptor.Component != tc.component {
				t.Fatalf("component = %q, want %q", descriptor.Component, tc.component)
			}
			if descriptor.IsFormField != tc.form || descriptor.FullWidth != tc.full {
				t.Fatalf("flags form=%v full=%v, want form=%v full=%v", descriptor.IsFormField, descriptor.FullWidth, tc.form, tc.full)
			}
		})
	}
}

func TestLookup_UnknownType(t *testing.T) {
	descriptor, ok := Lookup("hologram")
	if ok {
		t.Fatalf("expected unknown type to report ok=false, got %+v", descriptor)
	}
	if IsValid("hologram") {
		t.Fatalf("IsValid should reject unknown type")
	}
	if cfg := DefaultConfig("hologram"); len(cfg) != 0 {
		t.Fatalf("expected empty default config, got %v", cfg)
	}
}

func TestDefaultConfig_ReturnsCopy(t *testing.T) {
	cfg := DefaultConfig(TypeTable)
	columns, ok := cfg["columns"].([]any)
	if !ok || len(columns) != 3 {
		t.Fatalf("unexpected table defaults: %v", cfg)
	}
	columns[0] = "mutated"
	cfg["extra"] = true

	again := DefaultConfig(TypeTable)
	want := map[string]any{"columns": []any{"Column 1", "Column 2", "Column 3"}}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("default config aliased the table (-want +got):\n%s", diff)
	}

	descriptor, _ := Lookup(TypeTable)
	descriptor.DefaultConfig["columns"] = nil
	if diff := cmp.Diff(want, DefaultConfig(TypeTable)); diff != "" {
		t.Fatalf("lookup aliased the table (-want +got):\n%s", diff)
	}
}

func TestAll_OrderedByCategory(t *testing.T) {
	all := All()
	if len(all) != len(registry) {
		t.Fatalf("All returned %d descriptors, want %d", len(all), len(registry))
	}
	last := -1
	for _, descriptor := range all {
		rank := categoryRank(descriptor.Category)
		if rank < last {
			t.Fatalf("descriptor %q out of category order", descriptor.Type)
		}
		last = rank
	}
}

func TestByCategory_Groups(t *testing.T) {
	groups := ByCategory()
	var keys []Category
	total := 0
	for _, group := range groups {
		keys = append(keys, group.Key)
		total += len(group.Types)
		for _, descriptor := range group.Types {
			if descriptor.Category != group.Key {
				t.Fatalf("descriptor %q grouped under %q", descriptor.Type, group.Key)
			}
		}
	}
	want := []Category{CategoryBasic, CategoryTable, CategorySpecialized, CategoryDiagram, CategoryUtility}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("category order mismatch (-want +got):\n%s", diff)
	}
	if total != len(registry) {
		t.Fatalf("grouped %d types, want %d", total, len(registry))
	}
	if groups[0].Name != "Basic" {
		t.Fatalf("expected display metadata on groups, got %+v", groups[0].CategoryInfo)
	}
}

func TestFilteredKeys(t *testing.T) {
	for _, key := range FullWidthTypes() {
		if key == TypeText || key == TypeSelect || key == TypeTimeline || key == TypeBudget {
			t.Fatalf("%q should not be full width", key)
		}
	}
	for _, key := range FormFieldTypes() {
		switch key {
		case TypeSectionHeader, TypeInfoBanner, TypeStaticDiagram, TypeTIDPReference, TypeOrgStructureDataTable:
			t.Fatalf("%q should not be a form field", key)
		}
	}
}

func TestCategoryOf_Unknown(t *testing.T) {
	info := CategoryOf("custom")
	if info.Key != "custom" || info.Name != "custom" {
		t.Fatalf("unexpected generated category: %+v", info)
	}
}
