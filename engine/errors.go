package engine

import (
	"errors"
	"fmt"
)

// ErrNoState is returned when Resume is called on an engine with no seeded
// run state.
var ErrNoState = errors.New("engine has no run state to resume")

// StructuralError marks a fatal authoring bug in the manifest encountered
// at run time: a malformed block id, a missing node or block, or a merge
// directive naming an unknown memory key. Structural errors are never
// retried and propagate to the caller unchanged.
type StructuralError struct {
	BlockID string
	Err     error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error at %q: %v", e.BlockID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StructuralError) Unwrap() error {
	return e.Err
}
