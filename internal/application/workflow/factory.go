package workflow

import (
	domainwf "github.com/SarthakGarg19/social-support-ai/internal/domain/workflow"
)

// NewIntakeBuilder configures the intake transition table
func NewIntakeBuilder() domainwf.StateMachineBuilder {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StateInitiated).
		Permit(domainwf.TriggerStart, domainwf.StateExtraction).
		Permit(domainwf.TriggerCancel, domainwf.StateAbandoned)

	builder.Configure(domainwf.StateExtraction).
		Permit(domainwf.TriggerExtracted, domainwf.StateValidation).
		Permit(domainwf.TriggerCancel, domainwf.StateAbandoned)

	// The only conditional edge: DecideAfterValidation picks PROCEED or HALT
	builder.Configure(domainwf.StateValidation).
		Permit(domainwf.TriggerProceed, domainwf.StateEligibility).
		Permit(domainwf.TriggerHalt, domainwf.StateEndedEarly).
		Permit(domainwf.TriggerCancel, domainwf.StateAbandoned)

	builder.Configure(domainwf.StateEligibility).
		Permit(domainwf.TriggerScored, domainwf.StateRecommendation).
		Permit(domainwf.TriggerCancel, domainwf.StateAbandoned)

	builder.Configure(domainwf.StateRecommendation).
		Permit(domainwf.TriggerRecommended, domainwf.StateFinalize).
		Permit(domainwf.TriggerCancel, domainwf.StateAbandoned)

	builder.Configure(domainwf.StateFinalize).
		Permit(domainwf.TriggerFinalized, domainwf.StateCompleted).
		Permit(domainwf.TriggerCancel, domainwf.StateAbandoned)

	// COMPLETED, ENDED_EARLY and ABANDONED are terminal

	return builder
}
