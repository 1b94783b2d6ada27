package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// RecommendationService matches programs and writes personalized advice
type RecommendationService interface {
	Recommend(ctx context.Context, in entity.ScoringInput, eligibility *entity.EligibilityResult) (*entity.RecommendationSet, error)
}

type recommendationServiceImpl struct {
	matcher  *Matcher
	narrator narrator
	logger   Logger
}

// NewRecommendationService creates a RecommendationService. backend may be nil.
func NewRecommendationService(matcher *Matcher, backend port.Narrator, narrationTimeout time.Duration, logger Logger) RecommendationService {
	return &recommendationServiceImpl{
		matcher:  matcher,
		narrator: newNarrator(backend, narrationTimeout, logger),
		logger:   loggerOrNop(logger),
	}
}

func (s *recommendationServiceImpl) Recommend(ctx context.Context, in entity.ScoringInput, eligibility *entity.EligibilityResult) (*entity.RecommendationSet, error) {
	set := s.matcher.Match(in)

	decision := entity.DecisionPending
	if eligibility != nil {
		decision = eligibility.Decision
	}

	set.Advice = s.narrator.narrateOr(ctx, port.NarrationRequest{
		Purpose: port.PurposeRecommendationAdvice,
		Data: map[string]interface{}{
			"applicant_name":    in.ApplicantName,
			"employment_status": string(in.EmploymentStatus),
			"monthly_income":    in.MonthlyIncome,
			"family_size":       in.FamilySize,
			"decision":          string(decision),
			"programs":          formatGroups(set.Groups),
		},
	}, FallbackAdvice)

	s.logger.Info("Recommendations generated",
		"groups", len(set.Groups),
		"programs", set.TotalPrograms(),
	)
	return set, nil
}

func formatGroups(groups []entity.ProgramGroup) string {
	var sb strings.Builder
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("%s (%s Priority):\n", g.Category, g.Priority))
		for _, p := range g.Programs {
			sb.WriteString(fmt.Sprintf("  - %s\n", p))
		}
	}
	return sb.String()
}
