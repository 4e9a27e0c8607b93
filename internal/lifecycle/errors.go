package lifecycle

import (
	"errors"
	"fmt"

	"fieldops-api/internal/models"
)

var (
	// ErrNotFound means a referenced task, project or technician does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReassignmentNotConfirmed means a task with work in flight was
	// reassigned to a different technician without the explicit
	// confirmation flag.
	ErrReassignmentNotConfirmed = errors.New("reassigning an in-flight task requires explicit confirmation")
)

// ValidationError reports malformed input. It is always raised before any
// persistence, so the task or project record is untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an attempted status change not permitted
// from the task's current state.
type InvalidTransitionError struct {
	From models.TaskStatus
	To   models.TaskStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// InvalidDateRangeError reports a scheduled end date earlier than the start date.
type InvalidDateRangeError struct {
	Start string
	End   string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("scheduled end date %s precedes start date %s", e.End, e.Start)
}
