package movement

// Action is an input action the controller polls every tick.
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionJump
	// ActionSprint is the sprint modifier.
	ActionSprint
	// ActionWalk is the walk modifier.
	ActionWalk
)

// String ...
func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionBackward:
		return "backward"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionJump:
		return "jump"
	case ActionSprint:
		return "sprint"
	case ActionWalk:
		return "walk"
	}
	return "unknown"
}

// InputProvider reports the state of the input actions.
type InputProvider interface {
	// Pressed returns true if the action is currently held.
	Pressed(a Action) bool
}
