package event

// Type identifies the type of run event
type Type string

const (
	TypeRunStarted     Type = "run.started"
	TypeStageCompleted Type = "run.stage_completed"
	TypeRunEndedEarly  Type = "run.ended_early"
	TypeRunCompleted   Type = "run.completed"
	TypeRunAbandoned   Type = "run.abandoned"
)

// Payload keys shared by publishers and subscribers
const (
	PayloadStage     = "stage"
	PayloadState     = "state"
	PayloadSnapshot  = "snapshot"
	PayloadDecision  = "decision"
	PayloadScore     = "score"
	PayloadHasErrors = "has_errors"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeRunStarted,
		TypeStageCompleted,
		TypeRunEndedEarly,
		TypeRunCompleted,
		TypeRunAbandoned:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the event closes a run
func (t Type) IsTerminal() bool {
	return t == TypeRunCompleted || t == TypeRunEndedEarly || t == TypeRunAbandoned
}
