package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// AssessmentRepository implements port.AssessmentRepository
type AssessmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *sql.DB, logger *zap.Logger) port.AssessmentRepository {
	return &AssessmentRepository{
		db:     db,
		logger: logger,
	}
}

const assessmentColumns = `id, applicant_id, run_id, eligibility_score, decision, status,
	reasoning, recommendations, errors, created_at`

// Create stores an assessment
func (r *AssessmentRepository) Create(ctx context.Context, a *entity.Assessment) error {
	recs, err := toJSON(a.Recommendations)
	if err != nil {
		return err
	}
	errs := a.Errors
	if errs == nil {
		errs = []string{}
	}
	errJSON, err := toJSON(errs)
	if err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	query := `INSERT INTO assessments (` + assessmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		a.ID,
		a.ApplicantID,
		a.RunID,
		a.Score,
		string(a.Decision),
		string(a.Status),
		a.Reasoning,
		recs,
		errJSON,
		a.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create assessment",
			zap.String("applicant_id", a.ApplicantID),
			zap.String("run_id", a.RunID),
			zap.Error(err))
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// GetLatest returns the newest assessment for an applicant
func (r *AssessmentRepository) GetLatest(ctx context.Context, applicantID string) (*entity.Assessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE applicant_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`

	a, err := scanAssessment(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, applicantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment for %s: %w", applicantID, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get latest assessment", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// ListByApplicant returns every assessment for an applicant, newest first
func (r *AssessmentRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*entity.Assessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE applicant_id = ?
		ORDER BY created_at DESC, rowid DESC`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, applicantID)
	if err != nil {
		r.logger.Error("Failed to list assessments", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssessment(row rowScanner) (*entity.Assessment, error) {
	var (
		a                           entity.Assessment
		decision, status            string
		reasoning, recs, errorsBlob sql.NullString
	)
	err := row.Scan(
		&a.ID,
		&a.ApplicantID,
		&a.RunID,
		&a.Score,
		&decision,
		&status,
		&reasoning,
		&recs,
		&errorsBlob,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Decision = entity.Decision(decision)
	a.Status = entity.RunStatus(status)
	a.Reasoning = reasoning.String
	if recs.Valid && recs.String != "null" {
		a.Recommendations = &entity.RecommendationSet{}
		if err := fromJSON(recs, a.Recommendations); err != nil {
			return nil, err
		}
	}
	if err := fromJSON(errorsBlob, &a.Errors); err != nil {
		return nil, err
	}
	if a.Errors == nil {
		a.Errors = []string{}
	}
	return &a, nil
}

// Verify interface compliance
var _ port.AssessmentRepository = (*AssessmentRepository)(nil)
