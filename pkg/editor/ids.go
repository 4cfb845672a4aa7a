package editor

import (
	"regexp"
	"strings"
)

var (
	fieldIDPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9]+`)
)

// GenerateFieldID derives a logical field name from a label:
// "Project Name (Full)" becomes "project_name_full".
func GenerateFieldID(label string) string {
	id := nonAlnum.ReplaceAllString(strings.ToLower(label), "_")
	return strings.Trim(id, "_")
}

// ValidFieldID reports whether id is usable as a logical field name.
func ValidFieldID(id string) bool {
	return fieldIDPattern.MatchString(id)
}

// NextOrderIndex returns one past the highest order index, or 0 for an empty
// sibling set.
func NextOrderIndex[T any](items []T, orderIndex func(T) int) int {
	if len(items) == 0 {
		return 0
	}
	highest := orderIndex(items[0])
	for _, item := range items[1:] {
		highest = max(highest, orderIndex(item))
	}
	return highest + 1
}
