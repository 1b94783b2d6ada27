package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/storage"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/worker"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeEngine struct {
	decision  *entity.FinalDecision
	errs      []entity.RunError
	gotID     string
	gotDocs   []entity.DocumentRef
	cancelled map[string]bool
}

func (f *fakeEngine) ProcessApplication(ctx context.Context, applicantID string, profile entity.ApplicantProfile, docs []entity.DocumentRef) (*entity.FinalDecision, []entity.RunError) {
	f.gotID = applicantID
	f.gotDocs = docs
	return f.decision, f.errs
}

func (f *fakeEngine) Cancel(applicantID string) bool { return f.cancelled[applicantID] }
func (f *fakeEngine) Running(applicantID string) bool {
	return f.cancelled[applicantID]
}
func (f *fakeEngine) Graph() string { return "stateDiagram-v2\n" }

type fakeApplicants struct {
	profiles map[string]*entity.ApplicantProfile
}

func (f *fakeApplicants) Put(ctx context.Context, p *entity.ApplicantProfile) error { return nil }
func (f *fakeApplicants) Get(ctx context.Context, id string) (*entity.ApplicantProfile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, port.ErrNotFound
}
func (f *fakeApplicants) List(ctx context.Context, limit, offset int) ([]*entity.ApplicantProfile, error) {
	return nil, nil
}

type fakeAssessments struct {
	items []*entity.Assessment
	err   error
}

func (f *fakeAssessments) Create(ctx context.Context, a *entity.Assessment) error { return nil }
func (f *fakeAssessments) GetLatest(ctx context.Context, id string) (*entity.Assessment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) == 0 {
		return nil, port.ErrNotFound
	}
	return f.items[0], nil
}
func (f *fakeAssessments) ListByApplicant(ctx context.Context, id string) ([]*entity.Assessment, error) {
	return f.items, f.err
}

type fakeDocuments struct {
	lastQuery string
	lastLimit int
}

func (f *fakeDocuments) Create(ctx context.Context, d *entity.DocumentRecord) error { return nil }
func (f *fakeDocuments) ListByApplicant(ctx context.Context, id string) ([]*entity.DocumentRecord, error) {
	return nil, nil
}
func (f *fakeDocuments) Search(ctx context.Context, id, q string, limit int) ([]*entity.DocumentRecord, error) {
	f.lastQuery, f.lastLimit = q, limit
	return []*entity.DocumentRecord{{ID: "d-1", ApplicantID: id, DocType: entity.DocumentBankStatement}}, nil
}

type fakeState struct {
	snapshot *entity.WorkflowSnapshot
}

func (f *fakeState) Upsert(ctx context.Context, s *entity.WorkflowSnapshot) error { return nil }
func (f *fakeState) Get(ctx context.Context, id string) (*entity.WorkflowSnapshot, error) {
	if f.snapshot == nil {
		return nil, port.ErrNotFound
	}
	return f.snapshot, nil
}

type fakeHistory struct{}

func (fakeHistory) Create(ctx context.Context, r *entity.TransitionRecord) error { return nil }
func (fakeHistory) ListByApplicant(ctx context.Context, id string) ([]*entity.TransitionRecord, error) {
	return []*entity.TransitionRecord{{ID: 1, FromState: "initiated", ToState: "extraction", Trigger: "START"}}, nil
}

type fakeCache struct {
	snapshot *entity.WorkflowSnapshot
}

func (f *fakeCache) Put(ctx context.Context, s *entity.WorkflowSnapshot) error { return nil }
func (f *fakeCache) Get(ctx context.Context, id string) (*entity.WorkflowSnapshot, error) {
	if f.snapshot == nil {
		return nil, port.ErrNotFound
	}
	return f.snapshot, nil
}
func (f *fakeCache) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeCache) Ping(ctx context.Context) error              { return nil }

type fakeQueue struct {
	subs []worker.Submission
	err  error
}

func (f *fakeQueue) Submit(sub worker.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.subs = append(f.subs, sub)
	return nil
}

type fakeHealth map[string]string

func (f fakeHealth) Health(ctx context.Context) map[string]string { return f }

type fixture struct {
	engine      *fakeEngine
	assessments *fakeAssessments
	documents   *fakeDocuments
	state       *fakeState
	cache       *fakeCache
	queue       *fakeQueue
	uploadDir   string
	router      *gin.Engine
}

func newFixture(t *testing.T, mutate ...func(*Dependencies)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		engine: &fakeEngine{
			decision:  &entity.FinalDecision{ApplicantID: "a-1", Status: entity.RunStatusCompleted, Decision: entity.DecisionApproved, Score: 86},
			cancelled: map[string]bool{},
		},
		assessments: &fakeAssessments{},
		documents:   &fakeDocuments{},
		state:       &fakeState{},
		cache:       &fakeCache{},
		queue:       &fakeQueue{},
		uploadDir:   t.TempDir(),
	}

	deps := Dependencies{
		Engine: f.engine,
		Store: port.Store{
			Applicants:    &fakeApplicants{profiles: map[string]*entity.ApplicantProfile{"a-1": {ID: "a-1", Name: "Layla"}}},
			Assessments:   f.assessments,
			Documents:     f.documents,
			WorkflowState: f.state,
			History:       fakeHistory{},
		},
		Cache: f.cache,
		Queue: f.queue,
		Files: storage.NewLocalFileStorage(f.uploadDir, zap.NewNop()),
	}
	for _, m := range mutate {
		m(&deps)
	}

	cfg := DefaultServerConfig()
	cfg.MaxUploadBytes = 1 << 10
	f.router = NewServer(cfg, deps, nopLogger{}).Router()
	return f
}

func (f *fixture) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const applicationBody = `{"applicant_id": "a-1", "applicant": {"name": "Layla", "family_size": 3},
  "documents": [{"type": "bank_statement", "location": "/tmp/bank.pdf"}]}`

func TestSubmitApplication_Sync(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/applications", []byte(applicationBody), "application/json")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	decision := data["final_decision"].(map[string]interface{})
	assert.Equal(t, "APPROVED", decision["decision"])
	assert.Equal(t, []interface{}{}, data["errors"])
	assert.Equal(t, "a-1", f.engine.gotID)
	require.Len(t, f.engine.gotDocs, 1)
}

func TestSubmitApplication_SchemaViolation(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/applications", []byte(`{"applicant_id": "a-1"}`), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "applicant is required")
	assert.Empty(t, f.engine.gotID)
}

func TestSubmitApplication_FailedStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   int
	}{
		{"store down", "Record store unreachable: database is locked", http.StatusServiceUnavailable},
		{"busy", "a run is already in progress for this applicant: a-1", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.engine.decision = entity.FailedDecision("a-1", "Layla", tt.detail)

			w := f.do(http.MethodPost, "/api/applications", []byte(applicationBody), "application/json")

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.detail, decode(t, w)["error"])
		})
	}
}

func TestSubmitApplication_Async(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/applications?async=true", []byte(applicationBody), "application/json")

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, f.queue.subs, 1)
	assert.Equal(t, "Layla", f.queue.subs[0].Profile.Name)
	assert.Empty(t, f.engine.gotID)

	f.queue.err = worker.ErrQueueFull
	w = f.do(http.MethodPost, "/api/applications?async=true", []byte(applicationBody), "application/json")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSubmitApplication_AsyncWithoutQueue(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) { d.Queue = nil })

	w := f.do(http.MethodPost, "/api/applications?async=true", []byte(applicationBody), "application/json")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func multipartBody(t *testing.T, docType, name string, content []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", docType))
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	f := newFixture(t)
	body, ct := multipartBody(t, "credit_report", "credit.txt", []byte("Credit Score: 712"))

	w := f.do(http.MethodPost, "/api/applicants/a-1/documents", body, ct)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "credit_report", data["type"])
	location := data["location"].(string)
	assert.True(t, strings.HasPrefix(location, f.uploadDir))

	stored, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "Credit Score: 712", string(stored))
}

func TestUploadDocument_Rejects(t *testing.T) {
	f := newFixture(t)

	body, ct := multipartBody(t, "payslip", "p.pdf", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/applicants/a-1/documents", body, ct).Code)

	body, ct = multipartBody(t, "resume", "cv.txt", bytes.Repeat([]byte("a"), 2048))
	assert.Equal(t, http.StatusRequestEntityTooLarge, f.do(http.MethodPost, "/api/applicants/a-1/documents", body, ct).Code)
}

func TestGetApplicant(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/applicants/a-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Layla", decode(t, w)["data"].(map[string]interface{})["name"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/applicants/missing", nil, "").Code)
}

func TestAssessments(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/applicants/a-1/assessment", nil, "").Code)

	w := f.do(http.MethodGet, "/api/applicants/a-1/assessments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["data"])

	f.assessments.items = []*entity.Assessment{{ID: "as-2", Decision: entity.DecisionDeclined}, {ID: "as-1"}}
	w = f.do(http.MethodGet, "/api/applicants/a-1/assessment", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "as-2", decode(t, w)["data"].(map[string]interface{})["id"])

	f.assessments.err = errors.New("disk I/O error")
	assert.Equal(t, http.StatusInternalServerError, f.do(http.MethodGet, "/api/applicants/a-1/assessment", nil, "").Code)
}

func TestGetWorkflowState_CacheThenStore(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/applicants/a-1/workflow", nil, "").Code)

	f.state.snapshot = &entity.WorkflowSnapshot{ApplicantID: "a-1", CurrentStage: entity.SnapshotCompleted}
	w := f.do(http.MethodGet, "/api/applicants/a-1/workflow", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "store", decode(t, w)["data"].(map[string]interface{})["source"])

	f.cache.snapshot = &entity.WorkflowSnapshot{ApplicantID: "a-1", CurrentStage: entity.SnapshotValidationComplete}
	w = f.do(http.MethodGet, "/api/applicants/a-1/workflow", nil, "")
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "cache", data["source"])
	assert.Equal(t, entity.SnapshotValidationComplete, data["snapshot"].(map[string]interface{})["current_stage"])
}

func TestHistoryAndDocumentSearch(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/applicants/a-1/history", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = f.do(http.MethodGet, "/api/applicants/a-1/documents?q=SALARY&limit=500", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SALARY", f.documents.lastQuery)
	assert.Equal(t, 20, f.documents.lastLimit)

	w = f.do(http.MethodGet, "/api/applicants/a-1/documents", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["data"])
}

func TestCancelRun(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/applicants/a-1/run", nil, "").Code)

	f.engine.cancelled["a-1"] = true
	assert.Equal(t, http.StatusAccepted, f.do(http.MethodDelete, "/api/applicants/a-1/run", nil, "").Code)
}

func TestWorkflowGraph(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/workflow/graph?format=text", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stateDiagram-v2\n", w.Body.String())

	w = f.do(http.MethodGet, "/api/workflow/graph", nil, "")
	assert.Equal(t, "stateDiagram-v2\n", decode(t, w)["data"].(map[string]interface{})["mermaid"])
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) {
		d.Health = fakeHealth{"database": "ok", "cache": "dial tcp: connection refused"}
	})

	w := f.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])

	healthy := newFixture(t)
	assert.Equal(t, http.StatusOK, healthy.do(http.MethodGet, "/health", nil, "").Code)
}
