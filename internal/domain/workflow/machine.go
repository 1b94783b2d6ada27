package workflow

import "context"

// StateMachine tracks the stage of a single run. It is not safe for
// concurrent use; each run owns its machine.
type StateMachine interface {
	// State returns the current stage
	State() State

	// CanFire returns true if the trigger is configured for the current stage
	CanFire(trigger Trigger) bool

	// Fire moves the run along the edge selected by trigger
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers configured for the current stage
	PermittedTriggers() []Trigger
}
