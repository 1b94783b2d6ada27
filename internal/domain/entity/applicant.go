package entity

import (
	"fmt"
	"time"
)

// ApplicantProfile is the identity and declared attributes of an applicant.
// Declared* values are fallbacks for anything document extraction leaves unset.
type ApplicantProfile struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	EmiratesID          string            `json:"emirates_id,omitempty"`
	FamilySize          int               `json:"family_size"`
	EmploymentStatus    EmploymentStatus  `json:"employment_status"`
	ContactInfo         map[string]string `json:"contact_info,omitempty"`
	DeclaredIncome      *float64          `json:"monthly_income,omitempty"`
	DeclaredAssets      *float64          `json:"total_assets,omitempty"`
	DeclaredLiabilities *float64          `json:"total_liabilities,omitempty"`
	DeclaredCreditScore *int              `json:"credit_score,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Validate checks the fields every run depends on. A zero family size means
// undeclared and is left to the validation stage.
func (p *ApplicantProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("applicant id is required")
	}
	if p.FamilySize < 0 {
		return fmt.Errorf("family size cannot be negative: %d", p.FamilySize)
	}
	return nil
}

// EffectiveFamilySize returns the declared family size, treating anything below 1 as 1
func (p *ApplicantProfile) EffectiveFamilySize() int {
	if p.FamilySize < 1 {
		return 1
	}
	return p.FamilySize
}
