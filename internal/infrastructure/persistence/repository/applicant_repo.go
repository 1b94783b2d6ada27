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

// ApplicantRepository implements port.ApplicantRepository
type ApplicantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicantRepository creates a new applicant repository
func NewApplicantRepository(db *sql.DB, logger *zap.Logger) port.ApplicantRepository {
	return &ApplicantRepository{
		db:     db,
		logger: logger,
	}
}

// Put inserts the profile or overwrites the stored one, keeping created_at
func (r *ApplicantRepository) Put(ctx context.Context, p *entity.ApplicantProfile) error {
	contact, err := toJSON(p.ContactInfo)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO applicants (
			id, name, emirates_id, family_size, employment_status,
			monthly_income, total_assets, total_liabilities, credit_score,
			contact_info, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			emirates_id = excluded.emirates_id,
			family_size = excluded.family_size,
			employment_status = excluded.employment_status,
			monthly_income = excluded.monthly_income,
			total_assets = excluded.total_assets,
			total_liabilities = excluded.total_liabilities,
			credit_score = excluded.credit_score,
			contact_info = excluded.contact_info,
			updated_at = excluded.updated_at
	`

	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.EmiratesID,
		p.FamilySize,
		string(p.EmploymentStatus),
		nullFloat(p.DeclaredIncome),
		nullFloat(p.DeclaredAssets),
		nullFloat(p.DeclaredLiabilities),
		nullInt(p.DeclaredCreditScore),
		contact,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to put applicant", zap.String("applicant_id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to put applicant: %w", err)
	}
	return nil
}

// Get retrieves an applicant by id
func (r *ApplicantRepository) Get(ctx context.Context, id string) (*entity.ApplicantProfile, error) {
	query := `
		SELECT id, name, emirates_id, family_size, employment_status,
			monthly_income, total_assets, total_liabilities, credit_score,
			contact_info, created_at, updated_at
		FROM applicants
		WHERE id = ?
	`

	p, err := scanApplicant(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("applicant %s: %w", id, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get applicant", zap.String("applicant_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return p, nil
}

// List returns applicants ordered by most recently updated
func (r *ApplicantRepository) List(ctx context.Context, limit, offset int) ([]*entity.ApplicantProfile, error) {
	query := `
		SELECT id, name, emirates_id, family_size, employment_status,
			monthly_income, total_assets, total_liabilities, credit_score,
			contact_info, created_at, updated_at
		FROM applicants
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list applicants", zap.Error(err))
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	var out []*entity.ApplicantProfile
	for rows.Next() {
		p, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplicant(row rowScanner) (*entity.ApplicantProfile, error) {
	var (
		p                         entity.ApplicantProfile
		emiratesID, status        sql.NullString
		income, assets, liability sql.NullFloat64
		credit                    sql.NullInt64
		contact                   sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&emiratesID,
		&p.FamilySize,
		&status,
		&income,
		&assets,
		&liability,
		&credit,
		&contact,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.EmiratesID = emiratesID.String
	p.EmploymentStatus = entity.EmploymentStatus(status.String)
	p.DeclaredIncome = floatPtr(income)
	p.DeclaredAssets = floatPtr(assets)
	p.DeclaredLiabilities = floatPtr(liability)
	p.DeclaredCreditScore = intPtr(credit)
	if err := fromJSON(contact, &p.ContactInfo); err != nil {
		return nil, err
	}
	return &p, nil
}

// Verify interface compliance
var _ port.ApplicantRepository = (*ApplicantRepository)(nil)
