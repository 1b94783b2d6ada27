package port

import (
	"context"
	"errors"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// ErrNotFound is returned by getters when no record exists for the key
var ErrNotFound = errors.New("record not found")

// ApplicantRepository stores applicant profiles keyed by applicant id
type ApplicantRepository interface {
	// Put inserts the profile or replaces the stored one with the same id
	Put(ctx context.Context, profile *entity.ApplicantProfile) error
	Get(ctx context.Context, id string) (*entity.ApplicantProfile, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ApplicantProfile, error)
}

// AssessmentRepository stores final decisions; an applicant may have many
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *entity.Assessment) error
	// GetLatest returns the most recent assessment for an applicant
	GetLatest(ctx context.Context, applicantID string) (*entity.Assessment, error)
	// ListByApplicant returns assessments most recent first
	ListByApplicant(ctx context.Context, applicantID string) ([]*entity.Assessment, error)
}

// DocumentRepository stores per-document extraction records
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.DocumentRecord) error
	ListByApplicant(ctx context.Context, applicantID string) ([]*entity.DocumentRecord, error)
	// Search matches query case-insensitively against stored raw text and summaries
	Search(ctx context.Context, applicantID, query string, limit int) ([]*entity.DocumentRecord, error)
}

// WorkflowStateRepository keeps one live snapshot per applicant
type WorkflowStateRepository interface {
	// Upsert replaces the applicant's snapshot, never adding a second row
	Upsert(ctx context.Context, snapshot *entity.WorkflowSnapshot) error
	Get(ctx context.Context, applicantID string) (*entity.WorkflowSnapshot, error)
}

// HistoryRepository is the append-only transition audit trail
type HistoryRepository interface {
	Create(ctx context.Context, record *entity.TransitionRecord) error
	ListByApplicant(ctx context.Context, applicantID string) ([]*entity.TransitionRecord, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Store groups the record collections a run reads and writes
type Store struct {
	Applicants    ApplicantRepository
	Assessments   AssessmentRepository
	Documents     DocumentRepository
	WorkflowState WorkflowStateRepository
	History       HistoryRepository
	Tx            TransactionManager
	Health        HealthChecker
}
