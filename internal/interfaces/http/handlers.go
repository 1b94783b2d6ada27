package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/application/workflow"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/storage"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/worker"
	"github.com/SarthakGarg19/social-support-ai/internal/interfaces/intake"
)

// Submitter queues applications for background processing
type Submitter interface {
	Submit(sub worker.Submission) error
}

// HealthReporter returns "ok" or an error description per component
type HealthReporter interface {
	Health(ctx context.Context) map[string]string
}

// Dependencies are the collaborators the handlers call. Cache, Queue, Health
// and Metrics are optional.
type Dependencies struct {
	Engine  workflow.Engine
	Store   port.Store
	Cache   port.RunStateCache
	Queue   Submitter
	Files   port.FileStorage
	Health  HealthReporter
	Metrics http.Handler
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps           Dependencies
	maxUploadBytes int64
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, maxUploadBytes int64, logger Logger) *Handlers {
	return &Handlers{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// ApplicationResponse is the result of a synchronous run
type ApplicationResponse struct {
	Decision *entity.FinalDecision `json:"final_decision"`
	Errors   []entity.RunError     `json:"errors"`
}

// WorkflowStateResponse is a live snapshot and where it was read from
type WorkflowStateResponse struct {
	Snapshot *entity.WorkflowSnapshot `json:"snapshot"`
	Source   string                   `json:"source"`
	Running  bool                     `json:"running"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	status := http.StatusOK
	if h.deps.Health != nil {
		response.Components = h.deps.Health.Health(c.Request.Context())
		for _, state := range response.Components {
			if state != "ok" {
				response.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
	}

	c.JSON(status, Response{
		Success: status == http.StatusOK,
		Data:    response,
	})
}

// SubmitApplication handles POST /api/applications
func (h *Handlers) SubmitApplication(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := intake.Decode(raw)
	if err != nil {
		h.logger.Error("Rejected application", "error", err)
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if c.Query("async") == "true" {
		h.enqueue(c, req)
		return
	}

	decision, errs := h.deps.Engine.ProcessApplication(c.Request.Context(), req.ApplicantID, req.Profile(), req.Documents)
	if errs == nil {
		errs = []entity.RunError{}
	}

	status := http.StatusOK
	if decision.Status == entity.RunStatusFailed {
		status = http.StatusServiceUnavailable
		if strings.HasPrefix(decision.Detail, workflow.ErrRunInProgress.Error()) {
			status = http.StatusConflict
		}
	}
	c.JSON(status, Response{
		Success: status == http.StatusOK,
		Data:    ApplicationResponse{Decision: decision, Errors: errs},
		Error:   errorText(status, decision.Detail),
	})
}

func errorText(status int, detail string) string {
	if status == http.StatusOK {
		return ""
	}
	return detail
}

func (h *Handlers) enqueue(c *gin.Context, req *intake.Request) {
	if h.deps.Queue == nil {
		fail(c, http.StatusServiceUnavailable, "background processing is disabled")
		return
	}

	err := h.deps.Queue.Submit(worker.Submission{
		ApplicantID: req.ApplicantID,
		Profile:     req.Profile(),
		Documents:   req.Documents,
	})
	switch {
	case errors.Is(err, worker.ErrQueueFull):
		fail(c, http.StatusTooManyRequests, err.Error())
	case err != nil:
		fail(c, http.StatusServiceUnavailable, err.Error())
	default:
		ok(c, http.StatusAccepted, gin.H{"applicant_id": req.ApplicantID, "status": "queued"})
	}
}

// UploadDocument handles POST /api/applicants/:id/documents
func (h *Handlers) UploadDocument(c *gin.Context) {
	applicantID := c.Param("id")
	docType := entity.DocumentType(c.PostForm("type"))
	if !docType.IsValid() {
		fail(c, http.StatusBadRequest, "unknown document type: "+string(docType))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to open upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read upload")
		return
	}

	path := storage.DocumentPath(applicantID, docType, header.Filename, time.Now())
	if err := h.deps.Files.Save(c.Request.Context(), path, content); err != nil {
		h.logger.Error("Failed to store upload", "applicant_id", applicantID, "error", err)
		fail(c, http.StatusInternalServerError, "failed to store document")
		return
	}

	ok(c, http.StatusCreated, entity.DocumentRef{
		Type:     docType,
		Location: h.deps.Files.GetFullPath(path),
	})
}

// GetApplicant handles GET /api/applicants/:id
func (h *Handlers) GetApplicant(c *gin.Context) {
	profile, err := h.deps.Store.Applicants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "applicant", err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// GetLatestAssessment handles GET /api/applicants/:id/assessment
func (h *Handlers) GetLatestAssessment(c *gin.Context) {
	assessment, err := h.deps.Store.Assessments.GetLatest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "assessment", err)
		return
	}
	ok(c, http.StatusOK, assessment)
}

// ListAssessments handles GET /api/applicants/:id/assessments
func (h *Handlers) ListAssessments(c *gin.Context) {
	assessments, err := h.deps.Store.Assessments.ListByApplicant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "assessments", err)
		return
	}
	if assessments == nil {
		assessments = []*entity.Assessment{}
	}
	ok(c, http.StatusOK, assessments)
}

// GetWorkflowState handles GET /api/applicants/:id/workflow. The cache is
// consulted first; the store is authoritative.
func (h *Handlers) GetWorkflowState(c *gin.Context) {
	ctx := c.Request.Context()
	applicantID := c.Param("id")
	running := h.deps.Engine.Running(applicantID)

	if h.deps.Cache != nil {
		snapshot, err := h.deps.Cache.Get(ctx, applicantID)
		if err == nil {
			ok(c, http.StatusOK, WorkflowStateResponse{Snapshot: snapshot, Source: "cache", Running: running})
			return
		}
		if !errors.Is(err, port.ErrNotFound) {
			h.logger.Error("Run-state cache read failed", "applicant_id", applicantID, "error", err)
		}
	}

	snapshot, err := h.deps.Store.WorkflowState.Get(ctx, applicantID)
	if err != nil {
		h.storeError(c, "workflow state", err)
		return
	}
	ok(c, http.StatusOK, WorkflowStateResponse{Snapshot: snapshot, Source: "store", Running: running})
}

// GetHistory handles GET /api/applicants/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	records, err := h.deps.Store.History.ListByApplicant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "history", err)
		return
	}
	if records == nil {
		records = []*entity.TransitionRecord{}
	}
	ok(c, http.StatusOK, records)
}

// ListDocuments handles GET /api/applicants/:id/documents?q=&limit=
func (h *Handlers) ListDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	applicantID := c.Param("id")

	var (
		docs []*entity.DocumentRecord
		err  error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		limit, _ := strconv.Atoi(c.Query("limit"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		docs, err = h.deps.Store.Documents.Search(ctx, applicantID, q, limit)
	} else {
		docs, err = h.deps.Store.Documents.ListByApplicant(ctx, applicantID)
	}
	if err != nil {
		h.storeError(c, "documents", err)
		return
	}
	if docs == nil {
		docs = []*entity.DocumentRecord{}
	}
	ok(c, http.StatusOK, docs)
}

// CancelRun handles DELETE /api/applicants/:id/run
func (h *Handlers) CancelRun(c *gin.Context) {
	applicantID := c.Param("id")
	if !h.deps.Engine.Cancel(applicantID) {
		fail(c, http.StatusNotFound, "no run in progress")
		return
	}
	h.logger.Info("Run cancellation requested", "applicant_id", applicantID)
	ok(c, http.StatusAccepted, gin.H{"applicant_id": applicantID, "cancelled": true})
}

// WorkflowGraph handles GET /api/workflow/graph. ?format=text returns the raw diagram.
func (h *Handlers) WorkflowGraph(c *gin.Context) {
	graph := h.deps.Engine.Graph()
	if c.Query("format") == "text" {
		c.String(http.StatusOK, graph)
		return
	}
	ok(c, http.StatusOK, gin.H{"mermaid": graph})
}

func (h *Handlers) storeError(c *gin.Context, what string, err error) {
	if errors.Is(err, port.ErrNotFound) {
		fail(c, http.StatusNotFound, what+" not found")
		return
	}
	h.logger.Error("Store read failed", "resource", what, "error", err)
	fail(c, http.StatusInternalServerError, "failed to load "+what)
}
