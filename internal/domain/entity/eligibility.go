package entity

// FactorScore is one labeled sub-score of an eligibility result
type FactorScore struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
	Label  string  `json:"label"`
}

// EligibilityResult is the scorer's output
type EligibilityResult struct {
	Score       float64       `json:"eligibility_score"`
	Decision    Decision      `json:"decision"`
	Confidence  Confidence    `json:"confidence"`
	Factors     []FactorScore `json:"factors"`
	Explanation string        `json:"explanation,omitempty"`
}

// DegradedEligibility is substituted when scoring fails
func DegradedEligibility() *EligibilityResult {
	return &EligibilityResult{
		Score:      0,
		Decision:   DecisionError,
		Confidence: ConfidenceNone,
		Factors:    []FactorScore{},
	}
}

// ScoringInput is the applicant record with scoring defaults applied
type ScoringInput struct {
	ApplicantName    string           `json:"applicant_name"`
	MonthlyIncome    float64          `json:"monthly_income"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	FamilySize       int              `json:"family_size"`
	TotalAssets      float64          `json:"total_assets"`
	TotalLiabilities float64          `json:"total_liabilities"`
	CreditScore      int              `json:"credit_score"`
}

// NewScoringInput applies the scoring defaults: zero for missing amounts,
// unknown employment, and the profile's family size (at least 1).
func NewScoringInput(m MergedFinancialRecord, p ApplicantProfile) ScoringInput {
	in := ScoringInput{
		ApplicantName:    p.Name,
		EmploymentStatus: EmploymentUnknown,
		FamilySize:       p.EffectiveFamilySize(),
	}
	if m.MonthlyIncome != nil {
		in.MonthlyIncome = *m.MonthlyIncome
	}
	if m.EmploymentStatus != nil {
		in.EmploymentStatus = *m.EmploymentStatus
	}
	if m.TotalAssets != nil {
		in.TotalAssets = *m.TotalAssets
	}
	if m.TotalLiabilities != nil {
		in.TotalLiabilities = *m.TotalLiabilities
	}
	if m.CreditScore != nil {
		in.CreditScore = *m.CreditScore
	}
	return in
}
