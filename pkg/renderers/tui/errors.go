package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when a renderer is used without a prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
	// ErrSkipped lets a component leave a field untouched, bypassing the
	// required check.
	ErrSkipped = errors.New("tui: field skipped")
)
