package workflow

import (
	"fmt"
	"strings"
)

// Mermaid renders the transition table as a Mermaid state diagram.
func Mermaid(edges []Edge) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", StateInitiated))
	for _, e := range edges {
		label := e.Trigger.String()
		if e.Guarded {
			label += " [guarded]"
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", e.From, e.To, label))
	}
	for _, s := range []State{StateCompleted, StateEndedEarly, StateAbandoned} {
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", s))
	}
	return sb.String()
}
