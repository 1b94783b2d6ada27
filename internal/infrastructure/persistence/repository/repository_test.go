package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/persistence/sqlite"
	"github.com/SarthakGarg19/social-support-ai/migrations"
	"github.com/SarthakGarg19/social-support-ai/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (port.Store, *sqlite.DB) {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations(migrations.FS))

	sdb := sqlite.NewDB(db.DB, logger)
	return NewStore(sdb, logger), sdb
}

func TestApplicantRepository_PutGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := &entity.ApplicantProfile{
		ID:               "APP-1",
		Name:             "Ahmed Al Mansoori",
		EmiratesID:       "784-1990-1234567-1",
		FamilySize:       4,
		EmploymentStatus: entity.EmploymentUnemployed,
		ContactInfo:      map[string]string{"phone": "+971500000000"},
		DeclaredIncome:   entity.Ptr(3000.0),
	}
	require.NoError(t, store.Applicants.Put(ctx, p))

	got, err := store.Applicants.Get(ctx, "APP-1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed Al Mansoori", got.Name)
	assert.Equal(t, 4, got.FamilySize)
	assert.Equal(t, entity.EmploymentUnemployed, got.EmploymentStatus)
	assert.Equal(t, "+971500000000", got.ContactInfo["phone"])
	require.NotNil(t, got.DeclaredIncome)
	assert.Equal(t, 3000.0, *got.DeclaredIncome)
	assert.Nil(t, got.DeclaredAssets)
	assert.Nil(t, got.DeclaredCreditScore)

	// second put replaces rather than duplicates
	p.Name = "Ahmed M."
	p.DeclaredCreditScore = entity.Ptr(700)
	require.NoError(t, store.Applicants.Put(ctx, p))

	list, err := store.Applicants.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ahmed M.", list[0].Name)
	require.NotNil(t, list[0].DeclaredCreditScore)
	assert.Equal(t, 700, *list[0].DeclaredCreditScore)
}

func TestApplicantRepository_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Applicants.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestAssessmentRepository_LatestAndList(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := &entity.Assessment{
		ID: "A1", ApplicantID: "APP-1", RunID: "R1",
		Score: 42.5, Decision: entity.DecisionUnderReview, Status: entity.RunStatusCompleted,
		Reasoning: "borderline", CreatedAt: base,
	}
	second := &entity.Assessment{
		ID: "A2", ApplicantID: "APP-1", RunID: "R2",
		Score: 71, Decision: entity.DecisionApproved, Status: entity.RunStatusCompleted,
		Recommendations: &entity.RecommendationSet{NextSteps: []string{"1. Apply"}},
		Errors:          []string{"Failed to extract resume: boom"},
		CreatedAt:       base.Add(time.Hour),
	}
	require.NoError(t, store.Assessments.Create(ctx, first))
	require.NoError(t, store.Assessments.Create(ctx, second))

	latest, err := store.Assessments.GetLatest(ctx, "APP-1")
	require.NoError(t, err)
	assert.Equal(t, "A2", latest.ID)
	assert.Equal(t, entity.DecisionApproved, latest.Decision)
	require.NotNil(t, latest.Recommendations)
	assert.Equal(t, []string{"1. Apply"}, latest.Recommendations.NextSteps)
	assert.Equal(t, []string{"Failed to extract resume: boom"}, latest.Errors)

	all, err := store.Assessments.ListByApplicant(ctx, "APP-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A2", all[0].ID)
	assert.Equal(t, "A1", all[1].ID)
	assert.Nil(t, all[1].Recommendations)
	assert.Empty(t, all[1].Errors)

	_, err = store.Assessments.GetLatest(ctx, "APP-2")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestDocumentRepository_Search(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	bank := &entity.DocumentRecord{
		ID: "D1", ApplicantID: "APP-1", RunID: "R1",
		DocType: entity.DocumentBankStatement, FilePath: "bank.pdf",
		ExtractedData: &entity.ExtractedFields{
			DocumentType:  entity.DocumentBankStatement,
			MonthlyIncome: entity.Ptr(8000.0),
			Summary:       "Salary: AED 8,000.00 (1 deposits)",
		},
		RawText:          "01-Jan-2026 SALARY ACME LLC +8,000.00 12,000.00",
		ValidationStatus: entity.DocumentStatusExtracted,
	}
	resume := &entity.DocumentRecord{
		ID: "D2", ApplicantID: "APP-1", RunID: "R1",
		DocType: entity.DocumentResume, FilePath: "cv.pdf",
		RawText: "Senior welder, 100% on-site",
	}
	other := &entity.DocumentRecord{
		ID: "D3", ApplicantID: "APP-2", RunID: "R9",
		DocType: entity.DocumentBankStatement, FilePath: "bank.pdf",
		RawText: "salary",
	}
	for _, d := range []*entity.DocumentRecord{bank, resume, other} {
		require.NoError(t, store.Documents.Create(ctx, d))
	}

	docs, err := store.Documents.ListByApplicant(ctx, "APP-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, entity.DocumentStatusPending, docs[1].ValidationStatus)
	require.NotNil(t, docs[0].ExtractedData)
	assert.Equal(t, 8000.0, *docs[0].ExtractedData.MonthlyIncome)

	hits, err := store.Documents.Search(ctx, "APP-1", "salary", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "D1", hits[0].ID)

	hits, err = store.Documents.Search(ctx, "APP-1", "WELDER", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "D2", hits[0].ID)

	// % is matched literally
	hits, err = store.Documents.Search(ctx, "APP-1", "100%", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = store.Documents.Search(ctx, "APP-1", "%", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestWorkflowStateRepository_UpsertKeepsOneRow(t *testing.T) {
	store, sdb := newTestStore(t)
	ctx := context.Background()

	snap := &entity.WorkflowSnapshot{
		ApplicantID:  "APP-1",
		RunID:        "R1",
		CurrentStage: entity.SnapshotExtractionComplete,
		State:        "extraction",
		StageData:    json.RawMessage(`{"documents":2}`),
	}
	require.NoError(t, store.WorkflowState.Upsert(ctx, snap))
	created := snap.CreatedAt

	next := &entity.WorkflowSnapshot{
		ApplicantID:  "APP-1",
		RunID:        "R1",
		CurrentStage: entity.SnapshotValidationComplete,
		State:        "validation",
	}
	require.NoError(t, store.WorkflowState.Upsert(ctx, next))

	var count int
	require.NoError(t, sdb.QueryRow(`SELECT COUNT(*) FROM workflow_state WHERE applicant_id = ?`, "APP-1").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := store.WorkflowState.Get(ctx, "APP-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SnapshotValidationComplete, got.CurrentStage)
	assert.Empty(t, got.StageData)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)

	_, err = store.WorkflowState.Get(ctx, "APP-2")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestHistoryRepository_Order(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	steps := [][3]string{
		{"initiated", "extraction", "START"},
		{"extraction", "validation", "EXTRACTED"},
		{"validation", "ended_early", "HALT"},
	}
	for _, s := range steps {
		rec := &entity.TransitionRecord{ApplicantID: "APP-1", RunID: "R1", FromState: s[0], ToState: s[1], Trigger: s[2]}
		require.NoError(t, store.History.Create(ctx, rec))
		assert.NotZero(t, rec.ID)
	}

	trail, err := store.History.ListByApplicant(ctx, "APP-1")
	require.NoError(t, err)
	require.Len(t, trail, 3)
	for i, s := range steps {
		assert.Equal(t, s[2], trail[i].Trigger)
	}
}

func TestTransactionRollback(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		rec := &entity.TransitionRecord{ApplicantID: "APP-1", RunID: "R1", FromState: "a", ToState: "b", Trigger: "T"}
		if err := store.History.Create(txCtx, rec); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	trail, err := store.History.ListByApplicant(ctx, "APP-1")
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestApplicantRepository_PutFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO applicants").WillReturnError(errors.New("disk I/O error"))

	repo := NewApplicantRepository(db, zap.NewNop())
	err = repo.Put(context.Background(), &entity.ApplicantProfile{ID: "APP-1", Name: "x", FamilySize: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put applicant")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepository_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM assessments").WillReturnError(errors.New("database is locked"))

	repo := NewAssessmentRepository(db, zap.NewNop())
	_, err = repo.ListByApplicant(context.Background(), "APP-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
