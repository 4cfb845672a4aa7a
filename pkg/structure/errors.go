package structure

import "errors"

// ErrInvalidScope reports a scope whose kind and id do not agree.
var ErrInvalidScope = errors.New("structure: invalid scope")
