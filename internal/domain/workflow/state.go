package workflow

// State represents a stage of an applicant's intake run
type State string

const (
	StateInitiated      State = "initiated"
	StateExtraction     State = "extraction"
	StateValidation     State = "validation"
	StateEligibility    State = "eligibility"
	StateRecommendation State = "recommendation"
	StateFinalize       State = "finalize"
	StateCompleted      State = "completed"
	StateEndedEarly     State = "ended_early"
	StateAbandoned      State = "abandoned"
)

var validStates = map[State]bool{
	StateInitiated:      true,
	StateExtraction:     true,
	StateValidation:     true,
	StateEligibility:    true,
	StateRecommendation: true,
	StateFinalize:       true,
	StateCompleted:      true,
	StateEndedEarly:     true,
	StateAbandoned:      true,
}

var terminalStates = map[State]bool{
	StateCompleted:  true,
	StateEndedEarly: true,
	StateAbandoned:  true,
}

// stageOrder is the forward order a run moves through. Terminal states share
// the last rank so none of them can be followed by another.
var stageOrder = map[State]int{
	StateInitiated:      0,
	StateExtraction:     1,
	StateValidation:     2,
	StateEligibility:    3,
	StateRecommendation: 4,
	StateFinalize:       5,
	StateCompleted:      6,
	StateEndedEarly:     6,
	StateAbandoned:      6,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// Precedes reports whether s comes strictly before other in stage order.
func (s State) Precedes(other State) bool {
	a, okA := stageOrder[s]
	b, okB := stageOrder[other]
	return okA && okB && a < b
}
