package entity

import (
	"fmt"
)

// DocumentRef is one uploaded document handed to a run
type DocumentRef struct {
	Type     DocumentType `json:"type"`
	Location string       `json:"location"`
}

// ExtractedFields is the flat record produced from a single document.
// Nil fields were not found in the document.
type ExtractedFields struct {
	DocumentType        DocumentType   `json:"document_type"`
	MonthlyIncome       *float64       `json:"monthly_income,omitempty"`
	EmploymentStatus    *string        `json:"employment_status,omitempty"`
	TotalAssets         *float64       `json:"total_assets,omitempty"`
	TotalLiabilities    *float64       `json:"total_liabilities,omitempty"`
	CreditScore         *int           `json:"credit_score,omitempty"`
	AssetLiabilityRatio *float64       `json:"asset_liability_ratio,omitempty"`
	Summary             string         `json:"summary,omitempty"`
	RawText             string         `json:"raw_text,omitempty"`
	Details             map[string]any `json:"details,omitempty"`
}

// ExtractionError is the only error kind an extractor returns
type ExtractionError struct {
	DocumentType DocumentType
	Location     string
	Err          error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s from %s: %v", e.DocumentType, e.Location, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// DocumentExtraction pairs a document with its extraction outcome
type DocumentExtraction struct {
	Document DocumentRef      `json:"document"`
	Fields   *ExtractedFields `json:"fields,omitempty"`
	Err      error            `json:"-"`
}

// Succeeded reports whether the extractor produced fields
func (d DocumentExtraction) Succeeded() bool {
	return d.Err == nil && d.Fields != nil
}

// Field provenance values recorded on the merged record
const (
	SourceProfile = "profile"
	SourceDerived = "derived"
)

// MergedFinancialRecord is the applicant's financial picture after merging
// every successful extraction and the declared-profile fallbacks.
type MergedFinancialRecord struct {
	MonthlyIncome       *float64          `json:"monthly_income"`
	EmploymentStatus    *EmploymentStatus `json:"employment_status"`
	TotalAssets         *float64          `json:"total_assets"`
	TotalLiabilities    *float64          `json:"total_liabilities"`
	CreditScore         *int              `json:"credit_score"`
	AssetLiabilityRatio *float64          `json:"asset_liability_ratio"`
	Summaries           []string          `json:"summaries,omitempty"`
	Provenance          map[string]string `json:"provenance,omitempty"`
}

// MergeExtracted folds records in slice order with last-non-null-wins
// semantics, then fills fields that are still nil from the profile.
// A value taken from a document is never replaced by a declared one.
func MergeExtracted(records []*ExtractedFields, profile ApplicantProfile) MergedFinancialRecord {
	m := MergedFinancialRecord{Provenance: make(map[string]string)}

	for _, r := range records {
		if r == nil {
			continue
		}
		source := string(r.DocumentType)
		if r.MonthlyIncome != nil {
			m.MonthlyIncome = Ptr(*r.MonthlyIncome)
			m.Provenance["monthly_income"] = source
		}
		if r.EmploymentStatus != nil {
			m.EmploymentStatus = Ptr(NormalizeEmploymentStatus(*r.EmploymentStatus))
			m.Provenance["employment_status"] = source
		}
		if r.TotalAssets != nil {
			m.TotalAssets = Ptr(*r.TotalAssets)
			m.Provenance["total_assets"] = source
		}
		if r.TotalLiabilities != nil {
			m.TotalLiabilities = Ptr(*r.TotalLiabilities)
			m.Provenance["total_liabilities"] = source
		}
		if r.CreditScore != nil {
			m.CreditScore = Ptr(*r.CreditScore)
			m.Provenance["credit_score"] = source
		}
		if r.AssetLiabilityRatio != nil {
			m.AssetLiabilityRatio = Ptr(*r.AssetLiabilityRatio)
			m.Provenance["asset_liability_ratio"] = source
		}
		if r.Summary != "" {
			m.Summaries = append(m.Summaries, r.Summary)
		}
	}

	if m.MonthlyIncome == nil && profile.DeclaredIncome != nil {
		m.MonthlyIncome = Ptr(*profile.DeclaredIncome)
		m.Provenance["monthly_income"] = SourceProfile
	}
	if m.EmploymentStatus == nil && profile.EmploymentStatus != "" {
		m.EmploymentStatus = Ptr(NormalizeEmploymentStatus(string(profile.EmploymentStatus)))
		m.Provenance["employment_status"] = SourceProfile
	}
	if m.TotalAssets == nil && profile.DeclaredAssets != nil {
		m.TotalAssets = Ptr(*profile.DeclaredAssets)
		m.Provenance["total_assets"] = SourceProfile
	}
	if m.TotalLiabilities == nil && profile.DeclaredLiabilities != nil {
		m.TotalLiabilities = Ptr(*profile.DeclaredLiabilities)
		m.Provenance["total_liabilities"] = SourceProfile
	}
	if m.CreditScore == nil && profile.DeclaredCreditScore != nil {
		m.CreditScore = Ptr(*profile.DeclaredCreditScore)
		m.Provenance["credit_score"] = SourceProfile
	}

	if m.AssetLiabilityRatio == nil && m.TotalAssets != nil && m.TotalLiabilities != nil && *m.TotalLiabilities > 0 {
		m.AssetLiabilityRatio = Ptr(*m.TotalAssets / *m.TotalLiabilities)
		m.Provenance["asset_liability_ratio"] = SourceDerived
	}

	return m
}

// RequiredFieldsPresent returns how many of the five required fields are set
func (m MergedFinancialRecord) RequiredFieldsPresent() int {
	n := 0
	if m.MonthlyIncome != nil {
		n++
	}
	if m.EmploymentStatus != nil {
		n++
	}
	if m.TotalAssets != nil {
		n++
	}
	if m.TotalLiabilities != nil {
		n++
	}
	if m.CreditScore != nil {
		n++
	}
	return n
}

// RequiredFieldCount is the size of the required field set
const RequiredFieldCount = 5

// Ptr returns a pointer to a copy of v
func Ptr[T any](v T) *T {
	return &v
}
