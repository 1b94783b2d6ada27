package workflow

// ValidationOutcome is the result of the single conditional edge in the graph.
type ValidationOutcome int

const (
	OutcomeProceed ValidationOutcome = iota
	OutcomeHalt
)

// String returns the outcome name
func (o ValidationOutcome) String() string {
	switch o {
	case OutcomeProceed:
		return "proceed"
	case OutcomeHalt:
		return "halt"
	default:
		return "unknown"
	}
}

// Trigger maps the outcome to the trigger fired from StateValidation.
func (o ValidationOutcome) Trigger() Trigger {
	if o == OutcomeProceed {
		return TriggerProceed
	}
	return TriggerHalt
}

// ValidationVerdict is the part of a validation report the edge depends on.
type ValidationVerdict struct {
	IsValid            bool
	RequiresUserAction bool
}

// DecideAfterValidation picks the edge leaving StateValidation. A run only
// proceeds to scoring when the report is valid and needs no applicant action.
func DecideAfterValidation(v ValidationVerdict) ValidationOutcome {
	if v.RequiresUserAction || !v.IsValid {
		return OutcomeHalt
	}
	return OutcomeProceed
}
