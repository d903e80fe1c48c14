package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds   = errors.New("index out of range")
	ErrNoDefinitions = errors.New("no operator definitions")
)
