// Package builder provides the structure context shared by wizard and editor
// surfaces: derived step and field views, edit mode, the category grouped
// structure map and completion progress. Every mutation is forwarded to the
// store unchanged.
package builder
