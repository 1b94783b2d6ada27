package entity

import (
	"encoding/json"
	"time"
)

// DocumentRecord is the stored extraction result for one document
type DocumentRecord struct {
	ID               string           `json:"id"`
	ApplicantID      string           `json:"applicant_id"`
	RunID            string           `json:"run_id"`
	DocType          DocumentType     `json:"doc_type"`
	FilePath         string           `json:"file_path"`
	ExtractedData    *ExtractedFields `json:"extracted_data,omitempty"`
	RawText          string           `json:"-"`
	ValidationStatus string           `json:"validation_status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// WorkflowSnapshot is the live per-applicant view of a run. There is one row
// per applicant and each stage overwrites it.
type WorkflowSnapshot struct {
	ApplicantID  string          `json:"applicant_id"`
	RunID        string          `json:"run_id"`
	CurrentStage string          `json:"current_stage"`
	State        string          `json:"state"`
	StageData    json.RawMessage `json:"stage_data"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransitionRecord is one row of the append-only transition audit trail
type TransitionRecord struct {
	ID          int64     `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	RunID       string    `json:"run_id"`
	FromState   string    `json:"from_state"`
	ToState     string    `json:"to_state"`
	Trigger     string    `json:"trigger"`
	CreatedAt   time.Time `json:"created_at"`
}
