package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the current stage has no edge for a trigger
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a persisted stage name is not a known state
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when every guarded edge for a trigger refuses it
	ErrGuardFailed = errors.New("guard condition failed")

	// ErrTerminalState is returned when firing from completed, ended_early or abandoned
	ErrTerminalState = errors.New("run already in a terminal state")
)

// ParseState converts a stored stage name back into a State.
func ParseState(s string) (State, error) {
	state := State(s)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
	return state, nil
}
