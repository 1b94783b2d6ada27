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

// DefaultSearchLimit caps Search when the caller passes a non-positive limit
const DefaultSearchLimit = 20

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

const documentColumns = `id, applicant_id, run_id, doc_type, file_path,
	extracted_data, raw_text, validation_status, created_at`

// Create stores one document record
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.DocumentRecord) error {
	data, err := toJSON(doc.ExtractedData)
	if err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.ValidationStatus == "" {
		doc.ValidationStatus = entity.DocumentStatusPending
	}

	query := `INSERT INTO documents (` + documentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		doc.ID,
		doc.ApplicantID,
		doc.RunID,
		string(doc.DocType),
		doc.FilePath,
		data,
		doc.RawText,
		doc.ValidationStatus,
		doc.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create document record",
			zap.String("applicant_id", doc.ApplicantID),
			zap.String("doc_type", string(doc.DocType)),
			zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// ListByApplicant returns an applicant's documents in insertion order
func (r *DocumentRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*entity.DocumentRecord, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE applicant_id = ?
		ORDER BY created_at ASC, rowid ASC`

	return r.query(ctx, query, applicantID)
}

// Search does a case-insensitive substring match over raw text and extracted data
func (r *DocumentRepository) Search(ctx context.Context, applicantID, q string, limit int) ([]*entity.DocumentRecord, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := likePattern(q)

	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE applicant_id = ?
			AND (LOWER(COALESCE(raw_text, '')) LIKE ? ESCAPE '\'
				OR LOWER(COALESCE(extracted_data, '')) LIKE ? ESCAPE '\')
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	return r.query(ctx, query, applicantID, pattern, pattern, limit)
}

func (r *DocumentRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.DocumentRecord, error) {
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query documents", zap.Error(err))
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.DocumentRecord
	for rows.Next() {
		var (
			doc           entity.DocumentRecord
			docType       string
			data, rawText sql.NullString
		)
		err := rows.Scan(
			&doc.ID,
			&doc.ApplicantID,
			&doc.RunID,
			&docType,
			&doc.FilePath,
			&data,
			&rawText,
			&doc.ValidationStatus,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.DocType = entity.DocumentType(docType)
		doc.RawText = rawText.String
		if data.Valid && data.String != "null" {
			doc.ExtractedData = &entity.ExtractedFields{}
			if err := fromJSON(data, doc.ExtractedData); err != nil {
				return nil, err
			}
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
