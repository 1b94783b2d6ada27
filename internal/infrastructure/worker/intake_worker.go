package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/application/workflow"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

var (
	// ErrQueueFull is returned when the intake queue has no free slot
	ErrQueueFull = errors.New("intake queue is full")
	// ErrNotRunning is returned when submitting to a stopped worker
	ErrNotRunning = errors.New("intake worker is not running")
)

// IntakeWorkerConfig holds configuration for the intake worker
type IntakeWorkerConfig struct {
	QueueSize  int
	Consumers  int
	RunTimeout time.Duration
}

// DefaultIntakeWorkerConfig returns default configuration
func DefaultIntakeWorkerConfig() IntakeWorkerConfig {
	return IntakeWorkerConfig{
		QueueSize:  64,
		Consumers:  2,
		RunTimeout: 5 * time.Minute,
	}
}

// Submission is one application waiting to be processed
type Submission struct {
	ApplicantID string
	Profile     entity.ApplicantProfile
	Documents   []entity.DocumentRef
}

// IntakeStats is a point-in-time view of the worker
type IntakeStats struct {
	Running   bool      `json:"running"`
	Queued    int       `json:"queued"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	StartTime time.Time `json:"start_time"`
	LastError string    `json:"last_error,omitempty"`
}

// IntakeWorker runs queued applications through the engine in the background
type IntakeWorker struct {
	config IntakeWorkerConfig
	engine workflow.Engine
	logger *zap.Logger

	queue chan Submission
	wg    sync.WaitGroup

	// Runtime state
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	isRunning      bool
	processedCount int
	failedCount    int
	startTime      time.Time
	lastError      string
}

// NewIntakeWorker creates a new intake worker
func NewIntakeWorker(config IntakeWorkerConfig, engine workflow.Engine, logger *zap.Logger) *IntakeWorker {
	defaults := DefaultIntakeWorkerConfig()
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.Consumers <= 0 {
		config.Consumers = defaults.Consumers
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = defaults.RunTimeout
	}
	return &IntakeWorker{
		config: config,
		engine: engine,
		logger: logger,
		queue:  make(chan Submission, config.QueueSize),
	}
}

// Start launches the consumers
func (w *IntakeWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("intake worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.startTime = time.Now()
	w.mu.Unlock()

	w.logger.Info("IntakeWorker started",
		zap.Int("consumers", w.config.Consumers),
		zap.Int("queue_size", w.config.QueueSize))

	for i := 0; i < w.config.Consumers; i++ {
		w.wg.Add(1)
		go w.consume(i)
	}

	return nil
}

// Stop cancels in-flight runs and waits for the consumers to exit. Queued
// submissions that were never picked up are dropped.
func (w *IntakeWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}

	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	stats := w.Stats()
	w.logger.Info("IntakeWorker stopped",
		zap.Int("processed_count", stats.Processed),
		zap.Int("failed_count", stats.Failed),
		zap.Int("dropped", stats.Queued))

	return nil
}

// Name returns the worker name for identification
func (w *IntakeWorker) Name() string {
	return "IntakeWorker"
}

// Submit enqueues an application without blocking
func (w *IntakeWorker) Submit(sub Submission) error {
	w.mu.RLock()
	running := w.isRunning
	w.mu.RUnlock()
	if !running {
		return ErrNotRunning
	}

	select {
	case w.queue <- sub:
		w.logger.Info("Application queued",
			zap.String("applicant_id", sub.ApplicantID),
			zap.Int("documents", len(sub.Documents)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stats returns counters for health reporting
func (w *IntakeWorker) Stats() IntakeStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return IntakeStats{
		Running:   w.isRunning,
		Queued:    len(w.queue),
		Processed: w.processedCount,
		Failed:    w.failedCount,
		StartTime: w.startTime,
		LastError: w.lastError,
	}
}

func (w *IntakeWorker) consume(id int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Intake consumer exiting", zap.Int("consumer", id))
			return
		case sub := <-w.queue:
			w.process(sub)
		}
	}
}

func (w *IntakeWorker) process(sub Submission) {
	ctx, cancel := context.WithTimeout(w.ctx, w.config.RunTimeout)
	defer cancel()

	decision, errs := w.engine.ProcessApplication(ctx, sub.ApplicantID, sub.Profile, sub.Documents)

	w.mu.Lock()
	defer w.mu.Unlock()
	if decision.Status == entity.RunStatusFailed {
		w.failedCount++
		w.lastError = decision.Detail
		w.logger.Error("Queued application failed",
			zap.String("applicant_id", sub.ApplicantID),
			zap.String("detail", decision.Detail))
		return
	}

	w.processedCount++
	w.logger.Info("Queued application processed",
		zap.String("applicant_id", sub.ApplicantID),
		zap.String("status", string(decision.Status)),
		zap.String("decision", string(decision.Decision)),
		zap.Int("errors", len(errs)))
}
