package workflow

import (
	"context"
	"errors"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// ErrRunInProgress is reported when an applicant already has a run executing
var ErrRunInProgress = errors.New("a run is already in progress for this applicant")

// Engine drives one applicant's documents through extraction, validation,
// scoring, and recommendation to a final decision
type Engine interface {
	// ProcessApplication runs the full pipeline. Business failures never
	// surface as Go errors or panics; they are carried on the decision and
	// the returned error list.
	ProcessApplication(ctx context.Context, applicantID string, profile entity.ApplicantProfile, docs []entity.DocumentRef) (*entity.FinalDecision, []entity.RunError)

	// Cancel asks the applicant's in-flight run to stop at the next stage
	// boundary. It returns false when no run is active.
	Cancel(applicantID string) bool

	// Running reports whether the applicant has a run executing
	Running(applicantID string) bool

	// Graph renders the transition table as a Mermaid state diagram
	Graph() string
}
