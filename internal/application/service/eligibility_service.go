package service

import (
	"context"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// EligibilityService scores an applicant and explains the decision
type EligibilityService interface {
	Assess(ctx context.Context, in entity.ScoringInput) (*entity.EligibilityResult, error)
}

type eligibilityServiceImpl struct {
	scorer   *Scorer
	narrator narrator
	logger   Logger
}

// NewEligibilityService creates an EligibilityService. backend may be nil.
func NewEligibilityService(scorer *Scorer, backend port.Narrator, narrationTimeout time.Duration, logger Logger) EligibilityService {
	return &eligibilityServiceImpl{
		scorer:   scorer,
		narrator: newNarrator(backend, narrationTimeout, logger),
		logger:   loggerOrNop(logger),
	}
}

// Assess scores in and attaches an explanation. The numeric result does not
// depend on narration.
func (s *eligibilityServiceImpl) Assess(ctx context.Context, in entity.ScoringInput) (*entity.EligibilityResult, error) {
	result := s.scorer.Score(in)

	result.Explanation = s.narrator.narrateOr(ctx, port.NarrationRequest{
		Purpose: port.PurposeEligibilityExplanation,
		Data: map[string]interface{}{
			"applicant_name":    in.ApplicantName,
			"monthly_income":    in.MonthlyIncome,
			"family_size":       in.FamilySize,
			"employment_status": string(in.EmploymentStatus),
			"credit_score":      in.CreditScore,
			"score":             result.Score,
			"decision":          string(result.Decision),
		},
	}, FallbackExplanation(result.Decision, result.Score))

	s.logger.Info("Eligibility assessed",
		"score", result.Score,
		"decision", string(result.Decision),
		"confidence", string(result.Confidence),
	)
	return result, nil
}
