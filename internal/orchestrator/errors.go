package orchestrator

import "fmt"

// ErrStageFailed indicates a stage ran to completion but succeeded on zero
// items, so the status transition that would normally follow the stage
// did not happen; the caller sees a stage-failed signal instead.
type ErrStageFailed struct {
	Stage  string
	Reason string
}

func (e *ErrStageFailed) Error() string {
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Reason)
}
