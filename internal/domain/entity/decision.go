package entity

import (
	"time"
)

// FinalDecision is what a run returns to its caller and what gets stored as
// the canonical assessment.
type FinalDecision struct {
	RunID              string             `json:"run_id,omitempty"`
	ApplicantID        string             `json:"applicant_id"`
	ApplicantName      string             `json:"applicant_name"`
	Status             RunStatus          `json:"status"`
	Score              float64            `json:"eligibility_score"`
	Decision           Decision           `json:"decision"`
	Explanation        string             `json:"reasoning"`
	Recommendations    *RecommendationSet `json:"recommendations,omitempty"`
	Issues             []string           `json:"issues,omitempty"`
	RequiresUserAction bool               `json:"requires_user_action,omitempty"`
	Detail             string             `json:"detail,omitempty"`
	CompletedAt        time.Time          `json:"completed_at"`
	HasErrors          bool               `json:"has_errors"`
	Errors             []string           `json:"errors"`
}

// FailedDecision is returned when a run could not start at all
func FailedDecision(applicantID, name, detail string) *FinalDecision {
	return &FinalDecision{
		ApplicantID:   applicantID,
		ApplicantName: name,
		Status:        RunStatusFailed,
		Decision:      DecisionError,
		Detail:        detail,
		CompletedAt:   time.Now(),
		HasErrors:     true,
		Errors:        []string{detail},
	}
}

// Assessment is a stored final decision. An applicant may have many.
type Assessment struct {
	ID              string             `json:"id"`
	ApplicantID     string             `json:"applicant_id"`
	RunID           string             `json:"run_id"`
	Score           float64            `json:"eligibility_score"`
	Decision        Decision           `json:"decision"`
	Status          RunStatus          `json:"status"`
	Reasoning       string             `json:"reasoning"`
	Recommendations *RecommendationSet `json:"recommendations,omitempty"`
	Errors          []string           `json:"errors"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewAssessment builds the stored form of a final decision
func NewAssessment(id string, d *FinalDecision) *Assessment {
	return &Assessment{
		ID:              id,
		ApplicantID:     d.ApplicantID,
		RunID:           d.RunID,
		Score:           d.Score,
		Decision:        d.Decision,
		Status:          d.Status,
		Reasoning:       d.Explanation,
		Recommendations: d.Recommendations,
		Errors:          append([]string{}, d.Errors...),
		CreatedAt:       d.CompletedAt,
	}
}
