package pipeline

import "fmt"

// CollaboratorError wraps a failure from an external collaborator call at a
// given stage, carrying enough identity to retry manually.
type CollaboratorError struct {
	Stage Stage
	Item  string
	Cause error
}

func (e *CollaboratorError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("collaborator failure at stage %s (%s): %v", e.Stage, e.Item, e.Cause)
	}
	return fmt.Sprintf("collaborator failure at stage %s: %v", e.Stage, e.Cause)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}
