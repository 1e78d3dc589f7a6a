package pomodoro

import "fmt"

// ValidationError is returned when user input is rejected at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TaskNotFoundError indicates the id does not match any task.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// TransitionError indicates a timer action that is not allowed in the
// current mode or status.
type TransitionError struct {
	Op     string
	Mode   Mode
	Status Status
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s in %s mode", e.Op, e.Status, e.Mode)
}
