package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/application/dispatcher"
	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/application/service"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/event"
	domainwf "github.com/SarthakGarg19/social-support-ai/internal/domain/workflow"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

const (
	// DefaultStageTimeout bounds validation, scoring, matching, and finalization
	DefaultStageTimeout = 30 * time.Second
	// DefaultExtractionTimeout bounds a single document extraction
	DefaultExtractionTimeout = 60 * time.Second
	// DefaultExtractionConcurrency is the extraction pool size
	DefaultExtractionConcurrency = 4

	healthCheckTimeout = 5 * time.Second
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	store          port.Store
	extractor      port.Extractor
	validation     service.ValidationService
	eligibility    service.EligibilityService
	recommendation service.RecommendationService
	dispatcher     dispatcher.Dispatcher
	metrics        Recorder
	logger         *zap.Logger
	builder        domainwf.StateMachineBuilder

	stageTimeout          time.Duration
	extractionTimeout     time.Duration
	extractionConcurrency int

	// One in-flight run per applicant
	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting run events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithMetrics sets the run measurement recorder
func WithMetrics(r Recorder) EngineOption {
	return func(e *engineImpl) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithStageTimeout bounds each non-extraction stage
func WithStageTimeout(d time.Duration) EngineOption {
	return func(e *engineImpl) {
		if d > 0 {
			e.stageTimeout = d
		}
	}
}

// WithExtractionTimeout bounds each document extraction
func WithExtractionTimeout(d time.Duration) EngineOption {
	return func(e *engineImpl) {
		if d > 0 {
			e.extractionTimeout = d
		}
	}
}

// WithExtractionConcurrency sets how many documents are extracted at once
func WithExtractionConcurrency(n int) EngineOption {
	return func(e *engineImpl) {
		if n > 0 {
			e.extractionConcurrency = n
		}
	}
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *engineImpl) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	store port.Store,
	extractor port.Extractor,
	validation service.ValidationService,
	eligibility service.EligibilityService,
	recommendation service.RecommendationService,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		store:                 store,
		extractor:             extractor,
		validation:            validation,
		eligibility:           eligibility,
		recommendation:        recommendation,
		metrics:               nopRecorder{},
		logger:                zap.NewNop(),
		builder:               NewIntakeBuilder(),
		stageTimeout:          DefaultStageTimeout,
		extractionTimeout:     DefaultExtractionTimeout,
		extractionConcurrency: DefaultExtractionConcurrency,
		running:               make(map[string]context.CancelFunc),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ProcessApplication runs one applicant through the intake graph
func (e *engineImpl) ProcessApplication(ctx context.Context, applicantID string, profile entity.ApplicantProfile, docs []entity.DocumentRef) (*entity.FinalDecision, []entity.RunError) {
	profile.ID = applicantID
	if err := profile.Validate(); err != nil {
		return e.reject(applicantID, profile.Name, fmt.Sprintf("Invalid applicant profile: %v", err))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !e.register(applicantID, cancel) {
		return e.reject(applicantID, profile.Name, fmt.Sprintf("%s: %s", ErrRunInProgress.Error(), applicantID))
	}
	defer e.unregister(applicantID)

	runID := uuid.NewString()
	logger := utils.RunLogger(e.logger, applicantID, runID)

	started := time.Now()
	e.metrics.RunStarted()
	defer func() {
		e.metrics.RunFinished(time.Since(started))
	}()

	if err := e.checkStore(runCtx, &profile); err != nil {
		logger.Error("Record store unreachable", zap.Error(err))
		decision := entity.FailedDecision(applicantID, profile.Name, fmt.Sprintf("Record store unreachable: %v", err))
		decision.RunID = runID
		e.metrics.IncrementOutcome(string(decision.Status), string(decision.Decision))
		return decision, []entity.RunError{{Kind: entity.ErrorKindRun, Stage: domainwf.StateInitiated, Message: decision.Detail}}
	}

	r := &runner{
		engine:  e,
		run:     entity.NewWorkflowRun(runID, profile, docs),
		machine: e.builder.Build(domainwf.StateInitiated),
		logger:  logger,
	}

	logger.Info("Run started", zap.Int("documents", len(docs)))
	e.dispatchAsync(runCtx, event.NewEvent(event.TypeRunStarted, applicantID, runID, map[string]interface{}{
		"documents": len(docs),
	}))

	decision := r.execute(runCtx)
	decision.RunID = runID

	e.metrics.IncrementOutcome(string(decision.Status), string(decision.Decision))
	logger.Info("Run finished",
		zap.String("status", string(decision.Status)),
		zap.String("decision", string(decision.Decision)),
		zap.Float64("score", decision.Score),
		zap.Int("errors", len(decision.Errors)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return decision, r.run.Errors()
}

// Cancel asks an applicant's run to stop at the next stage boundary
func (e *engineImpl) Cancel(applicantID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cancel, ok := e.running[applicantID]
	if ok {
		cancel()
	}
	return ok
}

// Running reports whether the applicant has an in-flight run
func (e *engineImpl) Running(applicantID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.running[applicantID]
	return ok
}

// Graph renders the transition table
func (e *engineImpl) Graph() string {
	return domainwf.Mermaid(e.builder.Edges())
}

func (e *engineImpl) register(applicantID string, cancel context.CancelFunc) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.running[applicantID]; busy {
		return false
	}
	e.running[applicantID] = cancel
	return true
}

func (e *engineImpl) unregister(applicantID string) {
	e.mu.Lock()
	delete(e.running, applicantID)
	e.mu.Unlock()
}

// checkStore probes the store and records the applicant before any stage runs
func (e *engineImpl) checkStore(ctx context.Context, profile *entity.ApplicantProfile) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), healthCheckTimeout)
	defer cancel()

	if e.store.Health != nil {
		if err := e.store.Health.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping store: %w", err)
		}
	}
	if err := e.store.Applicants.Put(ctx, profile); err != nil {
		return fmt.Errorf("failed to save applicant: %w", err)
	}
	return nil
}

// reject answers a run that never started
func (e *engineImpl) reject(applicantID, name, detail string) (*entity.FinalDecision, []entity.RunError) {
	e.logger.Warn("Run rejected", zap.String("applicant_id", applicantID), zap.String("reason", detail))
	e.metrics.IncrementOutcome(string(entity.RunStatusFailed), string(entity.DecisionError))
	return entity.FailedDecision(applicantID, name, detail),
		[]entity.RunError{{Kind: entity.ErrorKindRun, Stage: domainwf.StateInitiated, Message: detail}}
}

func (e *engineImpl) dispatchAsync(ctx context.Context, evt *event.Event) {
	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, evt)
	}
}
