package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateInitiated, false},
		{StateExtraction, false},
		{StateValidation, false},
		{StateEligibility, false},
		{StateRecommendation, false},
		{StateFinalize, false},
		{StateCompleted, true},
		{StateEndedEarly, true},
		{StateAbandoned, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"initiated", StateInitiated, true},
		{"completed", StateCompleted, true},
		{"ended early", StateEndedEarly, true},
		{"unknown", State("INVALID"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_Precedes(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateInitiated, StateExtraction, true},
		{StateExtraction, StateFinalize, true},
		{StateValidation, StateEndedEarly, true},
		{StateEligibility, StateValidation, false},
		{StateCompleted, StateAbandoned, false},
		{StateExtraction, StateExtraction, false},
		{State("bogus"), StateCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.Precedes(tt.to); got != tt.want {
				t.Errorf("Precedes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseState(t *testing.T) {
	s, err := ParseState("validation")
	if err != nil {
		t.Fatalf("ParseState() error = %v", err)
	}
	if s != StateValidation {
		t.Errorf("ParseState() = %v, want %v", s, StateValidation)
	}

	if _, err := ParseState("VALIDATION"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ParseState() error = %v, want ErrInvalidState", err)
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerProceed.String(); got != "PROCEED" {
		t.Errorf("Trigger.String() = %v, want %v", got, "PROCEED")
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StateInitiated)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	config2 := builder.Configure(StateInitiated)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("INVALID"))
}

func TestBuilder_PermitPanicsOnBackwardEdge(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic when the edge moves backward")
		}
	}()

	builder.Configure(StateEligibility).Permit(TriggerHalt, StateValidation)
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateInitiated).
		Permit(TriggerStart, StateExtraction)

	machine := builder.Build(StateInitiated)

	if !machine.CanFire(TriggerStart) {
		t.Error("CanFire() should return true for permitted trigger")
	}

	if err := machine.Fire(context.Background(), TriggerStart); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine.State() != StateExtraction {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StateExtraction)
	}
}

func TestStateConfiguration_PermitIf(t *testing.T) {
	tests := []struct {
		name      string
		guard     bool
		wantState State
		wantErr   error
	}{
		{"guard passes", true, StateEligibility, nil},
		{"guard fails", false, StateValidation, ErrGuardFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder()
			builder.Configure(StateValidation).
				PermitIf(TriggerProceed, StateEligibility, func(ctx context.Context) bool {
					return tt.guard
				})

			machine := builder.Build(StateValidation)
			err := machine.Fire(context.Background(), TriggerProceed)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("Fire() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fire() error = %v, want %v", err, tt.wantErr)
			}
			if machine.State() != tt.wantState {
				t.Errorf("State() = %v, want %v", machine.State(), tt.wantState)
			}
		})
	}
}

func TestStateMachine_FireUnknownTrigger(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateInitiated).Permit(TriggerStart, StateExtraction)
	machine := builder.Build(StateInitiated)

	err := machine.Fire(context.Background(), TriggerScored)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}
	if machine.State() != StateInitiated {
		t.Errorf("State changed on rejected trigger: %v", machine.State())
	}
}

func TestStateMachine_FireFromUnconfiguredState(t *testing.T) {
	machine := NewBuilder().Build(StateFinalize)

	if machine.CanFire(TriggerFinalized) {
		t.Error("CanFire() should be false without configuration")
	}
	if err := machine.Fire(context.Background(), TriggerFinalized); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}
	if got := machine.PermittedTriggers(); len(got) != 0 {
		t.Errorf("PermittedTriggers() = %v, want empty", got)
	}
}

func TestStateMachine_TerminalStateRejectsTriggers(t *testing.T) {
	machine := NewBuilder().Build(StateEndedEarly)

	err := machine.Fire(context.Background(), TriggerCancel)
	if !errors.Is(err, ErrTerminalState) {
		t.Errorf("Fire() error = %v, want ErrTerminalState", err)
	}
}

func TestStateMachine_PermittedTriggersKeepOrder(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateValidation).
		Permit(TriggerProceed, StateEligibility).
		Permit(TriggerHalt, StateEndedEarly).
		Permit(TriggerCancel, StateAbandoned)

	got := builder.Build(StateValidation).PermittedTriggers()
	want := []Trigger{TriggerProceed, TriggerHalt, TriggerCancel}
	if len(got) != len(want) {
		t.Fatalf("PermittedTriggers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PermittedTriggers()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuilder_BuildIsolatesMachines(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateInitiated).Permit(TriggerStart, StateExtraction)

	first := builder.Build(StateInitiated)
	second := builder.Build(StateInitiated)

	if err := first.Fire(context.Background(), TriggerStart); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if second.State() != StateInitiated {
		t.Errorf("second machine moved to %v", second.State())
	}

	// edges added after Build must not leak into built machines
	builder.Configure(StateInitiated).Permit(TriggerCancel, StateAbandoned)
	if second.CanFire(TriggerCancel) {
		t.Error("built machine saw an edge configured after Build()")
	}
}

func TestBuilder_Edges(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateValidation).
		PermitIf(TriggerProceed, StateEligibility, func(context.Context) bool { return true }).
		Permit(TriggerHalt, StateEndedEarly)
	builder.Configure(StateInitiated).Permit(TriggerStart, StateExtraction)

	edges := builder.Edges()
	if len(edges) != 3 {
		t.Fatalf("Edges() len = %d, want 3", len(edges))
	}
	if edges[0].From != StateInitiated {
		t.Errorf("first edge from %v, want %v", edges[0].From, StateInitiated)
	}
	if !edges[1].Guarded || edges[1].Trigger != TriggerProceed {
		t.Errorf("second edge = %+v, want guarded PROCEED", edges[1])
	}
}

func TestDecideAfterValidation(t *testing.T) {
	tests := []struct {
		name    string
		verdict ValidationVerdict
		want    ValidationOutcome
		trigger Trigger
	}{
		{"valid, no action", ValidationVerdict{IsValid: true}, OutcomeProceed, TriggerProceed},
		{"invalid", ValidationVerdict{IsValid: false}, OutcomeHalt, TriggerHalt},
		{"user action required", ValidationVerdict{IsValid: true, RequiresUserAction: true}, OutcomeHalt, TriggerHalt},
		{"invalid and action required", ValidationVerdict{RequiresUserAction: true}, OutcomeHalt, TriggerHalt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideAfterValidation(tt.verdict)
			if got != tt.want {
				t.Errorf("DecideAfterValidation() = %v, want %v", got, tt.want)
			}
			if got.Trigger() != tt.trigger {
				t.Errorf("Trigger() = %v, want %v", got.Trigger(), tt.trigger)
			}
		})
	}
}

func TestMermaid(t *testing.T) {
	edges := []Edge{
		{From: StateInitiated, Trigger: TriggerStart, To: StateExtraction},
		{From: StateValidation, Trigger: TriggerProceed, To: StateEligibility, Guarded: true},
	}

	out := Mermaid(edges)

	for _, want := range []string{
		"stateDiagram-v2",
		"[*] --> initiated",
		"initiated --> extraction: START",
		"validation --> eligibility: PROCEED [guarded]",
		"ended_early --> [*]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid() missing %q in:\n%s", want, out)
		}
	}
}
