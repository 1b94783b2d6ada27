package entity

import "strings"

// Decision is the eligibility outcome carried on results and final decisions
type Decision string

const (
	DecisionApproved    Decision = "APPROVED"
	DecisionUnderReview Decision = "UNDER_REVIEW"
	DecisionDeclined    Decision = "DECLINED"
	DecisionError       Decision = "ERROR"
	// DecisionPending marks runs that stopped before scoring (ended early or abandoned)
	DecisionPending Decision = "PENDING"
)

// Confidence in an eligibility decision
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
	ConfidenceNone   Confidence = "NONE"
)

// Priority of a recommended program group
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// EmploymentStatus is the normalized employment status of an applicant
type EmploymentStatus string

const (
	EmploymentEmployed      EmploymentStatus = "employed"
	EmploymentSelfEmployed  EmploymentStatus = "self-employed"
	EmploymentBusinessOwner EmploymentStatus = "business-owner"
	EmploymentUnemployed    EmploymentStatus = "unemployed"
	EmploymentSeeking       EmploymentStatus = "seeking"
	EmploymentRetired       EmploymentStatus = "retired"
	EmploymentUnknown       EmploymentStatus = "unknown"
)

// NormalizeEmploymentStatus lowercases s and folds "_" and spaces into "-",
// so "Self_Employed" and "business owner" match the constants above.
// Empty input maps to EmploymentUnknown.
func NormalizeEmploymentStatus(s string) EmploymentStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EmploymentUnknown
	}
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return EmploymentStatus(s)
}

// IsEmployedLike reports whether the status explains reported income
func (s EmploymentStatus) IsEmployedLike() bool {
	switch s {
	case EmploymentEmployed, EmploymentSelfEmployed, EmploymentBusinessOwner:
		return true
	}
	return false
}

// IsJobSeeking reports whether the applicant is looking for work
func (s EmploymentStatus) IsJobSeeking() bool {
	return s == EmploymentUnemployed || s == EmploymentSeeking
}

// DocumentType tags an uploaded document so the extractor knows how to read it
type DocumentType string

const (
	DocumentBankStatement     DocumentType = "bank_statement"
	DocumentEmiratesID        DocumentType = "emirates_id"
	DocumentResume            DocumentType = "resume"
	DocumentAssetsLiabilities DocumentType = "assets_liabilities"
	DocumentCreditReport      DocumentType = "credit_report"
	DocumentGeneric           DocumentType = "generic"
)

var validDocumentTypes = map[DocumentType]bool{
	DocumentBankStatement:     true,
	DocumentEmiratesID:        true,
	DocumentResume:            true,
	DocumentAssetsLiabilities: true,
	DocumentCreditReport:      true,
	DocumentGeneric:           true,
}

// IsValid returns true for a known document type
func (t DocumentType) IsValid() bool {
	return validDocumentTypes[t]
}

// RunStatus is how a run ended
type RunStatus string

const (
	RunStatusCompleted  RunStatus = "completed"
	RunStatusEndedEarly RunStatus = "ended_early"
	RunStatusAbandoned  RunStatus = "abandoned"
	RunStatusFailed     RunStatus = "failed"
)

// Snapshot labels written to workflow_state after each node
const (
	SnapshotExtractionComplete      = "extraction_complete"
	SnapshotValidationComplete      = "validation_complete"
	SnapshotEligibilityComplete     = "eligibility_complete"
	SnapshotRecommendationsComplete = "recommendations_complete"
	SnapshotCompleted               = "completed"
	SnapshotEndedEarly              = "ended_early"
	SnapshotAbandoned               = "abandoned"
)

// Document validation status values stored on document records
const (
	DocumentStatusPending   = "pending"
	DocumentStatusExtracted = "extracted"
)
