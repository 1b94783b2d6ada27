package container

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/application/dispatcher"
	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/application/workflow"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/cache"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/external/openai"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/worker"
	"github.com/SarthakGarg19/social-support-ai/pkg/database"
)

const healthTimeout = 3 * time.Second

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	conn  *database.DB
	store port.Store
	cache *cache.RedisRunStateCache

	// Infrastructure - External
	openai *openai.Client

	// Infrastructure - Storage
	files port.FileStorage

	// Application
	extractor  port.Extractor
	services   *ServiceBundle
	dispatcher dispatcher.Dispatcher
	engine     workflow.Engine
	registry   *prometheus.Registry

	// Workers
	workers *worker.Manager
	intake  *worker.IntakeWorker

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Container{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database, migrations and record store
// 2. Run-state cache and OpenAI client
// 3. Upload storage
// 4. Extractor and stage services
// 5. Event dispatcher and workflow engine
// 6. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and record store
	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Initialize external clients
	if err := c.initExternalClients(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("External clients initialized",
		zap.Bool("cache", c.cache != nil),
		zap.Bool("openai", c.openai != nil))

	// Step 3: Initialize storage
	files, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.files = files
	c.logger.Info("Storage initialized", zap.String("upload_dir", c.config.Storage.UploadDir))

	// Step 4: Initialize extractor and services
	if err := c.initServices(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 5: Initialize dispatcher and workflow engine
	if err := c.initDispatcherAndWorkflow(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize dispatcher and workflow: %w", err)
	}
	c.logger.Info("Dispatcher and workflow engine initialized")

	// Step 6: Initialize and start workers
	if err := c.initWorkers(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started", zap.Int("count", c.workers.GetWorkerCount()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	errs := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// teardown releases whatever has been initialized, newest first
func (c *Container) teardown() []error {
	var errs []error

	// Cancel context to signal all goroutines
	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: Stop workers (reverse of step 6)
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
		c.workers = nil
	}

	// Step 2: Close dispatcher, draining async handlers (reverse of step 5)
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
		c.dispatcher = nil
	}

	// Steps 3 and 4 hold no resources

	// Step 5: Close cache connection (reverse of step 2)
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Error("Failed to close cache", zap.Error(err))
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		} else {
			c.logger.Info("Cache closed")
		}
		c.cache = nil
	}

	// Step 6: Close database (reverse of step 1)
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
		c.conn = nil
	}

	return errs
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health reports "ok" or a failure description for each enabled component.
// Disabled optional components are left out.
func (c *Container) Health(ctx context.Context) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := make(map[string]string)

	if c.store.Health != nil {
		status["database"] = probe(c.store.Health.Ping(ctx))
	} else {
		status["database"] = "not initialized"
	}

	if c.cache != nil {
		status["cache"] = probe(c.cache.Ping(ctx))
	}

	if c.openai != nil && c.config.Narration.Enabled {
		status["narrator"] = "ok"
	}

	if c.intake != nil {
		stats := c.intake.Stats()
		switch {
		case !stats.Running:
			status["worker"] = "stopped"
		case stats.Queued >= c.config.Worker.QueueSize:
			status["worker"] = "queue full"
		default:
			status["worker"] = "ok"
		}
	}

	return status
}

func probe(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

// initDatabase opens the database and builds the record store.
func (c *Container) initDatabase() error {
	bundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.conn = bundle.Conn
	c.store = bundle.Store
	return nil
}

// initExternalClients connects the optional redis cache and OpenAI client.
func (c *Container) initExternalClients() error {
	c.cache = ProvideCache(&c.config.Redis, c.logger)
	if c.cache != nil {
		ctx, cancel := context.WithTimeout(c.ctx, healthTimeout)
		defer cancel()
		if err := c.cache.Ping(ctx); err != nil {
			// The store stays authoritative; reads fall back to it.
			c.logger.Warn("Run-state cache unreachable at startup", zap.Error(err))
		}
	}

	client, err := ProvideOpenAIClient(&c.config.OpenAI, c.logger)
	if err != nil {
		return err
	}
	c.openai = client

	return nil
}

// initServices builds the extractor and the stage services.
func (c *Container) initServices() error {
	var (
		classifier port.ResumeClassifier
		narrator   port.Narrator
	)
	if c.openai != nil {
		classifier = c.openai
		narrator = c.openai
	}

	c.extractor = ProvideExtractor(classifier, c.logger)

	services, err := ProvideServices(&ServiceDeps{
		Policy:    &c.config.Policy,
		Programs:  &c.config.Programs,
		Narration: &c.config.Narration,
		Narrator:  narrator,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}

	c.services = services
	return nil
}

// initDispatcherAndWorkflow initializes the event dispatcher and workflow engine.
func (c *Container) initDispatcherAndWorkflow() error {
	disp, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	var runCache port.RunStateCache
	if c.cache != nil {
		runCache = c.cache
	}

	engine, err := ProvideWorkflowEngine(&WorkflowDeps{
		Store:      c.store,
		Extractor:  c.extractor,
		Services:   c.services,
		Dispatcher: c.dispatcher,
		Cache:      runCache,
		Registry:   c.registry,
		Config:     &c.config.Workflow,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.engine = engine

	return nil
}

// initWorkers creates and starts the background workers.
func (c *Container) initWorkers() error {
	manager, intake, err := ProvideWorkers(&c.config.Worker, c.engine, c.logger)
	if err != nil {
		return err
	}
	c.workers = manager
	c.intake = intake

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	return nil
}

// Getters for accessing container components

// Store returns the record store.
func (c *Container) Store() port.Store {
	return c.store
}

// Cache returns the run-state cache, or nil when disabled.
func (c *Container) Cache() port.RunStateCache {
	if c.cache == nil {
		return nil
	}
	return c.cache
}

// FileStorage returns the upload storage.
func (c *Container) FileStorage() port.FileStorage {
	return c.files
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// WorkflowEngine returns the workflow engine.
func (c *Container) WorkflowEngine() workflow.Engine {
	return c.engine
}

// IntakeWorker returns the background intake worker, or nil when disabled.
func (c *Container) IntakeWorker() *worker.IntakeWorker {
	return c.intake
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// MetricsHandler serves the container's prometheus registry.
func (c *Container) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}
