package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// ValidationService validates merged records and attaches a narrated insight
type ValidationService interface {
	Validate(ctx context.Context, record entity.MergedFinancialRecord) (*entity.ValidationReport, error)
}

type validationServiceImpl struct {
	validator *Validator
	narrator  narrator
	logger    Logger
}

// NewValidationService creates a ValidationService. backend may be nil.
func NewValidationService(validator *Validator, backend port.Narrator, narrationTimeout time.Duration, logger Logger) ValidationService {
	return &validationServiceImpl{
		validator: validator,
		narrator:  newNarrator(backend, narrationTimeout, logger),
		logger:    loggerOrNop(logger),
	}
}

// Validate runs the checks, then asks for an insight when more than half the
// required fields are present. The insight never changes the verdict.
func (s *validationServiceImpl) Validate(ctx context.Context, record entity.MergedFinancialRecord) (*entity.ValidationReport, error) {
	report := s.validator.Validate(record)

	if report.CompletenessScore > MinCompleteness {
		insight, err := s.narrator.narrate(ctx, port.NarrationRequest{
			Purpose: port.PurposeValidationInsight,
			Data:    recordData(record),
		})
		if err != nil {
			insight = fmt.Sprintf("LLM validation unavailable: %v", err)
		}
		report.Insight = insight
	}

	s.logger.Info("Validation complete",
		"completeness", report.CompletenessScore,
		"is_valid", report.IsValid,
		"issues", len(report.Issues),
		"warnings", len(report.Warnings),
		"requires_user_action", report.RequiresUserAction,
	)
	return report, nil
}

func recordData(m entity.MergedFinancialRecord) map[string]interface{} {
	data := map[string]interface{}{}
	if m.MonthlyIncome != nil {
		data["monthly_income"] = *m.MonthlyIncome
	}
	if m.EmploymentStatus != nil {
		data["employment_status"] = string(*m.EmploymentStatus)
	}
	if m.TotalAssets != nil {
		data["total_assets"] = *m.TotalAssets
	}
	if m.TotalLiabilities != nil {
		data["total_liabilities"] = *m.TotalLiabilities
	}
	if m.CreditScore != nil {
		data["credit_score"] = *m.CreditScore
	}
	if m.AssetLiabilityRatio != nil {
		data["asset_liability_ratio"] = *m.AssetLiabilityRatio
	}
	if len(m.Summaries) > 0 {
		data["summaries"] = m.Summaries
	}
	return data
}
