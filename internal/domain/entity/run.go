package entity

import (
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/workflow"
)

// ErrorKind classifies entries on a run's error list
type ErrorKind string

const (
	ErrorKindExtraction  ErrorKind = "extraction"
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindStage       ErrorKind = "stage"
	ErrorKindPersistence ErrorKind = "persistence"
	ErrorKindRun         ErrorKind = "run"
)

// RunError is one entry on a run's error list
type RunError struct {
	Kind    ErrorKind      `json:"kind"`
	Stage   workflow.State `json:"stage"`
	Message string         `json:"message"`
}

func (e RunError) String() string {
	return e.Message
}

// WorkflowRun is the state of one applicant's run. Only the engine driving
// the run mutates it.
type WorkflowRun struct {
	RunID           string                `json:"run_id"`
	ApplicantID     string                `json:"applicant_id"`
	Profile         ApplicantProfile      `json:"profile"`
	Documents       []DocumentRef         `json:"documents"`
	Extractions     []DocumentExtraction  `json:"-"`
	Merged          MergedFinancialRecord `json:"merged"`
	Validation      *ValidationReport     `json:"validation,omitempty"`
	Eligibility     *EligibilityResult    `json:"eligibility,omitempty"`
	Recommendations *RecommendationSet    `json:"recommendations,omitempty"`
	Stage           workflow.State        `json:"stage"`
	StartedAt       time.Time             `json:"started_at"`
	FinishedAt      *time.Time            `json:"finished_at,omitempty"`

	errors []RunError
}

// NewWorkflowRun starts a run in StateInitiated
func NewWorkflowRun(runID string, profile ApplicantProfile, docs []DocumentRef) *WorkflowRun {
	return &WorkflowRun{
		RunID:       runID,
		ApplicantID: profile.ID,
		Profile:     profile,
		Documents:   append([]DocumentRef{}, docs...),
		Stage:       workflow.StateInitiated,
		StartedAt:   time.Now(),
	}
}

// AddError appends to the error list. Entries are never removed.
func (r *WorkflowRun) AddError(kind ErrorKind, message string) {
	r.errors = append(r.errors, RunError{Kind: kind, Stage: r.Stage, Message: message})
}

// Errors returns a copy of the error list
func (r *WorkflowRun) Errors() []RunError {
	return append([]RunError{}, r.errors...)
}

// ErrorMessages returns the error list as plain strings
func (r *WorkflowRun) ErrorMessages() []string {
	out := make([]string, len(r.errors))
	for i, e := range r.errors {
		out[i] = e.Message
	}
	return out
}

// Finish stamps the finish time once
func (r *WorkflowRun) Finish() {
	if r.FinishedAt == nil {
		now := time.Now()
		r.FinishedAt = &now
	}
}
