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

// WorkflowStateRepository implements port.WorkflowStateRepository
type WorkflowStateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkflowStateRepository creates a new workflow state repository
func NewWorkflowStateRepository(db *sql.DB, logger *zap.Logger) port.WorkflowStateRepository {
	return &WorkflowStateRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert replaces the applicant's snapshot. created_at survives replacement.
func (r *WorkflowStateRepository) Upsert(ctx context.Context, s *entity.WorkflowSnapshot) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	var data sql.NullString
	if len(s.StageData) > 0 {
		data = sql.NullString{String: string(s.StageData), Valid: true}
	}

	query := `
		INSERT INTO workflow_state (
			applicant_id, run_id, current_stage, state, stage_data, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(applicant_id) DO UPDATE SET
			run_id = excluded.run_id,
			current_stage = excluded.current_stage,
			state = excluded.state,
			stage_data = excluded.stage_data,
			updated_at = excluded.updated_at
	`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		s.ApplicantID,
		s.RunID,
		s.CurrentStage,
		s.State,
		data,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert workflow state",
			zap.String("applicant_id", s.ApplicantID),
			zap.String("stage", s.CurrentStage),
			zap.Error(err))
		return fmt.Errorf("failed to upsert workflow state: %w", err)
	}
	return nil
}

// Get returns the live snapshot for an applicant
func (r *WorkflowStateRepository) Get(ctx context.Context, applicantID string) (*entity.WorkflowSnapshot, error) {
	query := `
		SELECT applicant_id, run_id, current_stage, state, stage_data, created_at, updated_at
		FROM workflow_state
		WHERE applicant_id = ?
	`

	var (
		s    entity.WorkflowSnapshot
		data sql.NullString
	)
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, applicantID).Scan(
		&s.ApplicantID,
		&s.RunID,
		&s.CurrentStage,
		&s.State,
		&data,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workflow state for %s: %w", applicantID, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get workflow state", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow state: %w", err)
	}
	if data.Valid {
		s.StageData = []byte(data.String)
	}
	return &s, nil
}

// Verify interface compliance
var _ port.WorkflowStateRepository = (*WorkflowStateRepository)(nil)
