package service

import (
	"fmt"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// Credit scores outside this range only produce a warning
const (
	MinTypicalCreditScore = 300
	MaxTypicalCreditScore = 850
)

// DefaultHighIncomeThreshold is the monthly income above which a warning is raised
const DefaultHighIncomeThreshold = 1_000_000.0

// MinCompleteness is the share of required fields a record needs to be valid
const MinCompleteness = 0.5

// IncomeStatusMismatchIssue asks the applicant to explain income without employment
const IncomeStatusMismatchIssue = "Income detected but employment status is not 'employed'. Please upload an updated resume or clarify employment status."

// Validator checks a merged record for completeness and consistency. It is
// pure; narrated insight is added by ValidationService afterwards.
type Validator struct {
	highIncomeThreshold float64
}

// NewValidator creates a Validator. A non-positive threshold selects the default.
func NewValidator(highIncomeThreshold float64) *Validator {
	if highIncomeThreshold <= 0 {
		highIncomeThreshold = DefaultHighIncomeThreshold
	}
	return &Validator{highIncomeThreshold: highIncomeThreshold}
}

// Validate builds the report for m
func (v *Validator) Validate(m entity.MergedFinancialRecord) *entity.ValidationReport {
	report := &entity.ValidationReport{
		CompletenessScore: float64(m.RequiredFieldsPresent()) / float64(entity.RequiredFieldCount),
		Issues:            []string{},
		Warnings:          []string{},
	}

	if m.MonthlyIncome != nil {
		income := *m.MonthlyIncome
		if income < 0 {
			report.Issues = append(report.Issues, "Monthly income cannot be negative")
		} else if income > v.highIncomeThreshold {
			report.Warnings = append(report.Warnings, "Unusually high monthly income")
		}
	}

	if m.CreditScore != nil {
		score := *m.CreditScore
		if score < MinTypicalCreditScore || score > MaxTypicalCreditScore {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Credit score %d outside typical range (%d-%d)", score, MinTypicalCreditScore, MaxTypicalCreditScore))
		}
	}

	if m.AssetLiabilityRatio != nil && *m.AssetLiabilityRatio < 0 {
		report.Issues = append(report.Issues, "Asset-liability ratio cannot be negative")
	}

	status := entity.EmploymentUnknown
	if m.EmploymentStatus != nil {
		status = *m.EmploymentStatus
	}
	if m.MonthlyIncome != nil && *m.MonthlyIncome > 0 && !status.IsEmployedLike() {
		report.Issues = append(report.Issues, IncomeStatusMismatchIssue)
		report.RequiresUserAction = true
	}

	if report.CompletenessScore < MinCompleteness {
		report.Issues = append(report.Issues,
			fmt.Sprintf("Insufficient data: only %.0f%% complete", report.CompletenessScore*100))
	}

	report.IsValid = report.CompletenessScore >= MinCompleteness && len(report.Issues) == 0
	return report
}
