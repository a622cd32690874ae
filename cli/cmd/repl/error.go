package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds     = errors.New("index out of range")
	ErrNotDeclarations = errors.New("source must contain only declarations")
)
