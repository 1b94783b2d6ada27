package port

import (
	"context"
	"errors"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// ErrNarrationUnavailable is returned when no narration backend is configured
// or the backend could not produce text
var ErrNarrationUnavailable = errors.New("narration unavailable")

// NarrationPurpose selects the prompt used for a narration request
type NarrationPurpose string

const (
	PurposeEligibilityExplanation NarrationPurpose = "eligibility_explanation"
	PurposeRecommendationAdvice   NarrationPurpose = "recommendation_advice"
	PurposeValidationInsight      NarrationPurpose = "validation_insight"
)

// NarrationRequest is the data a prompt template is rendered with
type NarrationRequest struct {
	Purpose NarrationPurpose
	Data    map[string]interface{}
}

// Narrator produces optional human-readable text. Callers always hold a
// fallback string; a narrator error never fails a run.
type Narrator interface {
	Narrate(ctx context.Context, req NarrationRequest) (string, error)
}

// ResumeProfile is the employment picture read from a resume
type ResumeProfile struct {
	EmploymentStatus string `json:"employment_status"`
	JobTitle         string `json:"current_job_title"`
	Employer         string `json:"current_employer"`
	JobPeriod        string `json:"current_job_period"`
	Reasoning        string `json:"reasoning"`
}

// ResumeClassifier reads employment status out of resume text
type ResumeClassifier interface {
	ClassifyResume(ctx context.Context, text string) (*ResumeProfile, error)
}

// Extractor turns one document into a flat record. Every error it returns is
// an *entity.ExtractionError.
type Extractor interface {
	Extract(ctx context.Context, doc entity.DocumentRef) (*entity.ExtractedFields, error)
}

// RunStateCache holds the live snapshot of in-flight runs for fast reads
type RunStateCache interface {
	Put(ctx context.Context, snapshot *entity.WorkflowSnapshot) error
	// Get returns ErrNotFound on a cache miss
	Get(ctx context.Context, applicantID string) (*entity.WorkflowSnapshot, error)
	Delete(ctx context.Context, applicantID string) error
	Ping(ctx context.Context) error
}
