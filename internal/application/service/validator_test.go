package service

import (
	"testing"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func status(s entity.EmploymentStatus) *entity.EmploymentStatus { return &s }

func fullRecord() entity.MergedFinancialRecord {
	return entity.MergedFinancialRecord{
		MonthlyIncome:    entity.Ptr(4000.0),
		EmploymentStatus: status(entity.EmploymentEmployed),
		TotalAssets:      entity.Ptr(10000.0),
		TotalLiabilities: entity.Ptr(40000.0),
		CreditScore:      entity.Ptr(640),
	}
}

func TestValidator_CompletenessIsPresentOverFive(t *testing.T) {
	v := NewValidator(0)

	tests := []struct {
		name   string
		record entity.MergedFinancialRecord
		want   float64
	}{
		{"empty", entity.MergedFinancialRecord{}, 0},
		{"one field", entity.MergedFinancialRecord{CreditScore: entity.Ptr(700)}, 0.2},
		{"two fields", entity.MergedFinancialRecord{TotalAssets: entity.Ptr(1.0), TotalLiabilities: entity.Ptr(0.0)}, 0.4},
		{"all fields", fullRecord(), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := v.Validate(tt.record)
			assert.InDelta(t, tt.want, report.CompletenessScore, 1e-9)
			assert.GreaterOrEqual(t, report.CompletenessScore, 0.0)
			assert.LessOrEqual(t, report.CompletenessScore, 1.0)
		})
	}
}

func TestValidator_ValidRecord(t *testing.T) {
	report := NewValidator(0).Validate(fullRecord())

	assert.True(t, report.IsValid)
	assert.False(t, report.RequiresUserAction)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)
}

func TestValidator_IncomeWithoutEmploymentRequiresAction(t *testing.T) {
	for _, s := range []entity.EmploymentStatus{entity.EmploymentUnemployed, entity.EmploymentRetired, entity.EmploymentUnknown} {
		t.Run(string(s), func(t *testing.T) {
			record := fullRecord()
			record.EmploymentStatus = status(s)

			report := NewValidator(0).Validate(record)

			assert.True(t, report.RequiresUserAction)
			assert.False(t, report.IsValid)
			assert.Contains(t, report.Issues, IncomeStatusMismatchIssue)
		})
	}
}

func TestValidator_IncomeWithMissingStatusRequiresAction(t *testing.T) {
	record := fullRecord()
	record.EmploymentStatus = nil

	report := NewValidator(0).Validate(record)

	assert.True(t, report.RequiresUserAction)
	assert.False(t, report.IsValid)
}

func TestValidator_EmployedLikeStatusesPass(t *testing.T) {
	for _, s := range []entity.EmploymentStatus{entity.EmploymentEmployed, entity.EmploymentSelfEmployed, entity.EmploymentBusinessOwner} {
		record := fullRecord()
		record.EmploymentStatus = status(s)
		report := NewValidator(0).Validate(record)
		assert.True(t, report.IsValid, "status %s", s)
	}
}

func TestValidator_RangeChecks(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(r *entity.MergedFinancialRecord)
		wantValid   bool
		wantIssue   string
		wantWarning string
	}{
		{
			name:      "negative income blocks",
			mutate:    func(r *entity.MergedFinancialRecord) { r.MonthlyIncome = entity.Ptr(-1.0) },
			wantValid: false,
			wantIssue: "Monthly income cannot be negative",
		},
		{
			name:        "high income warns",
			mutate:      func(r *entity.MergedFinancialRecord) { r.MonthlyIncome = entity.Ptr(2_000_000.0) },
			wantValid:   true,
			wantWarning: "Unusually high monthly income",
		},
		{
			name:        "low credit warns",
			mutate:      func(r *entity.MergedFinancialRecord) { r.CreditScore = entity.Ptr(120) },
			wantValid:   true,
			wantWarning: "Credit score 120 outside typical range (300-850)",
		},
		{
			name:        "high credit warns",
			mutate:      func(r *entity.MergedFinancialRecord) { r.CreditScore = entity.Ptr(900) },
			wantValid:   true,
			wantWarning: "Credit score 900 outside typical range (300-850)",
		},
		{
			name:      "negative ratio blocks",
			mutate:    func(r *entity.MergedFinancialRecord) { r.AssetLiabilityRatio = entity.Ptr(-0.5) },
			wantValid: false,
			wantIssue: "Asset-liability ratio cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := fullRecord()
			tt.mutate(&record)

			report := NewValidator(0).Validate(record)

			assert.Equal(t, tt.wantValid, report.IsValid)
			if tt.wantIssue != "" {
				assert.Contains(t, report.Issues, tt.wantIssue)
			}
			if tt.wantWarning != "" {
				assert.Contains(t, report.Warnings, tt.wantWarning)
			}
			assert.False(t, report.RequiresUserAction)
		})
	}
}

func TestValidator_InsufficientData(t *testing.T) {
	report := NewValidator(0).Validate(entity.MergedFinancialRecord{
		TotalAssets: entity.Ptr(100.0),
		CreditScore: entity.Ptr(700),
	})

	require.False(t, report.IsValid)
	assert.Contains(t, report.Issues, "Insufficient data: only 40% complete")
}

func TestValidator_HalfCompleteWithoutIssuesIsValid(t *testing.T) {
	// three of five fields and no income means no mismatch
	report := NewValidator(0).Validate(entity.MergedFinancialRecord{
		TotalAssets:      entity.Ptr(100.0),
		TotalLiabilities: entity.Ptr(100.0),
		CreditScore:      entity.Ptr(700),
	})

	assert.InDelta(t, 0.6, report.CompletenessScore, 1e-9)
	assert.True(t, report.IsValid)
}

func TestValidator_CustomHighIncomeThreshold(t *testing.T) {
	record := fullRecord()
	record.MonthlyIncome = entity.Ptr(60000.0)

	report := NewValidator(50000).Validate(record)

	assert.Contains(t, report.Warnings, "Unusually high monthly income")
}
