package entity

import "github.com/SarthakGarg19/social-support-ai/internal/domain/workflow"

// ValidationReport is the outcome of completeness and consistency checks
type ValidationReport struct {
	CompletenessScore  float64  `json:"completeness_score"`
	IsValid            bool     `json:"is_valid"`
	Issues             []string `json:"issues"`
	Warnings           []string `json:"warnings"`
	RequiresUserAction bool     `json:"requires_user_action"`
	Insight            string   `json:"insight,omitempty"`
}

// Verdict extracts what the conditional edge needs from the report
func (r *ValidationReport) Verdict() workflow.ValidationVerdict {
	return workflow.ValidationVerdict{
		IsValid:            r.IsValid,
		RequiresUserAction: r.RequiresUserAction,
	}
}
