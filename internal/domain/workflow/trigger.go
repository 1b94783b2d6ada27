package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerStart       Trigger = "START"
	TriggerExtracted   Trigger = "EXTRACTED"
	TriggerProceed     Trigger = "PROCEED"
	TriggerHalt        Trigger = "HALT"
	TriggerScored      Trigger = "SCORED"
	TriggerRecommended Trigger = "RECOMMENDED"
	TriggerFinalized   Trigger = "FINALIZED"
	TriggerCancel      Trigger = "CANCEL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
