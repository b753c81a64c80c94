package oerror

import "fmt"

// LocomotionError is an error raised by the locomotion controller or one of its collaborators.
type LocomotionError struct {
	Err string
}

// New returns a LocomotionError with a message formatted from the given format and arguments.
func New(format string, args ...any) *LocomotionError {
	return &LocomotionError{Err: fmt.Sprintf(format, args...)}
}

func (e *LocomotionError) Error() string {
	return e.Err
}
