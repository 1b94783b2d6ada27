package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a transition record
func (r *HistoryRepository) Create(ctx context.Context, record *entity.TransitionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO workflow_history (
			applicant_id, run_id, from_state, to_state, trigger_name, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		record.ApplicantID,
		record.RunID,
		record.FromState,
		record.ToState,
		record.Trigger,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create history record",
			zap.String("applicant_id", record.ApplicantID),
			zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// ListByApplicant returns the transition trail for an applicant in insertion order
func (r *HistoryRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*entity.TransitionRecord, error) {
	query := `
		SELECT id, applicant_id, run_id, from_state, to_state, trigger_name, created_at
		FROM workflow_history
		WHERE applicant_id = ?
		ORDER BY id ASC
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, applicantID)
	if err != nil {
		r.logger.Error("Failed to list history", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.TransitionRecord
	for rows.Next() {
		var record entity.TransitionRecord
		err := rows.Scan(
			&record.ID,
			&record.ApplicantID,
			&record.RunID,
			&record.FromState,
			&record.ToState,
			&record.Trigger,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
