// Package editor implements the structural editing flows on top of a
// builder.Context: dialogs that validate and save one step or field, and
// editors that reorder, toggle, move and delete. Every change requires the
// context to be in edit mode.
package editor
