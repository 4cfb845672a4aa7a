// Package structure defines the step/field data model, the scope a structure
// belongs to and the JSON wire shapes exchanged with the structure API.
//
// Sibling order everywhere is (order_index, id); SortSteps and SortFields
// implement it. Display numbers are never stored on these types.
package structure
