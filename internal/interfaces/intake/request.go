// Package intake decodes application submissions shared by the HTTP API and
// the CLI manifest loader.
package intake

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// ErrInvalidRequest wraps every schema or field validation failure
var ErrInvalidRequest = errors.New("invalid application request")

// Applicant is the declared profile part of a submission
type Applicant struct {
	Name             string            `json:"name"`
	EmiratesID       string            `json:"emirates_id,omitempty"`
	FamilySize       int               `json:"family_size,omitempty"`
	EmploymentStatus string            `json:"employment_status,omitempty"`
	MonthlyIncome    *float64          `json:"monthly_income,omitempty"`
	TotalAssets      *float64          `json:"total_assets,omitempty"`
	TotalLiabilities *float64          `json:"total_liabilities,omitempty"`
	CreditScore      *int              `json:"credit_score,omitempty"`
	ContactInfo      map[string]string `json:"contact_info,omitempty"`
}

// Request is one application submission
type Request struct {
	ApplicantID string               `json:"applicant_id"`
	Applicant   Applicant            `json:"applicant"`
	Documents   []entity.DocumentRef `json:"documents"`
}

// Decode validates raw JSON against the submission schema and the contact
// rules, then decodes it
func Decode(raw []byte) (*Request, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(errs, "; "))
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if req.Applicant.EmiratesID != "" {
		if err := utils.ValidateEmiratesID(req.Applicant.EmiratesID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if err := utils.ValidateContactInfo(req.Applicant.ContactInfo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return &req, nil
}

// Profile converts the declared applicant into the engine's profile
func (r *Request) Profile() entity.ApplicantProfile {
	a := r.Applicant
	profile := entity.ApplicantProfile{
		ID:                  r.ApplicantID,
		Name:                a.Name,
		EmiratesID:          a.EmiratesID,
		FamilySize:          a.FamilySize,
		ContactInfo:         a.ContactInfo,
		DeclaredIncome:      a.MonthlyIncome,
		DeclaredAssets:      a.TotalAssets,
		DeclaredLiabilities: a.TotalLiabilities,
		DeclaredCreditScore: a.CreditScore,
	}
	if a.EmploymentStatus != "" {
		profile.EmploymentStatus = entity.NormalizeEmploymentStatus(a.EmploymentStatus)
	}
	return profile
}
