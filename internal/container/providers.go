package container

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/application/dispatcher"
	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/application/service"
	"github.com/SarthakGarg19/social-support-ai/internal/application/workflow"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/event"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/cache"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/external/openai"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/extraction"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/metrics"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/persistence/repository"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/persistence/sqlite"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/storage"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/worker"
	"github.com/SarthakGarg19/social-support-ai/migrations"
	"github.com/SarthakGarg19/social-support-ai/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Conn  *database.DB
	TxMgr *sqlite.DB
	Store port.Store
}

// ServiceBundle groups the three stage services the engine drives.
type ServiceBundle struct {
	Validation     service.ValidationService
	Eligibility    service.EligibilityService
	Recommendation service.RecommendationService
}

// ProvideDatabase opens the database, applies pending migrations, and wires
// the record store over it.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(conn, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrationsFromDir(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrations(migrations.FS)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	txMgr := sqlite.NewDB(conn.DB, logger)

	return &DatabaseBundle{
		Conn:  conn,
		TxMgr: txMgr,
		Store: repository.NewStore(txMgr, logger),
	}, nil
}

// ProvideCache connects the redis run-state cache. It returns nil when no
// address is configured.
func ProvideCache(cfg *RedisConfig, logger *zap.Logger) *cache.RedisRunStateCache {
	if cfg == nil || cfg.Address == "" {
		return nil
	}
	return cache.NewRedisRunStateCache(cache.Config{
		Address:  cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	}, logger)
}

// ProvideOpenAIClient creates the narrator and resume classifier. It returns
// nil without an API key.
func ProvideOpenAIClient(cfg *OpenAIConfig, logger *zap.Logger) (*openai.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("openai config is required")
	}
	if cfg.APIKey == "" {
		logger.Warn("OpenAI API key not set; narration and resume classification disabled")
		return nil, nil
	}

	prompts, err := openai.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	return openai.NewClient(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	}, prompts, logger)
}

// ProvideExtractor creates the document extractor. classifier may be nil, in
// which case resumes fall back to an unknown employment status.
func ProvideExtractor(classifier port.ResumeClassifier, logger *zap.Logger) port.Extractor {
	var opts []extraction.Option
	if classifier != nil {
		opts = append(opts, extraction.WithResumeClassifier(classifier))
	}
	return extraction.NewExtractor(logger, opts...)
}

// ProvideStorage creates local file storage for uploads.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (port.FileStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	return storage.NewLocalFileStorage(cfg.UploadDir, logger), nil
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Policy    *PolicyConfig
	Programs  *ProgramsConfig
	Narration *NarrationConfig
	Narrator  port.Narrator
	Logger    *zap.Logger
}

// ProvideServices creates the validation, eligibility, and recommendation services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Policy == nil || deps.Programs == nil || deps.Narration == nil {
		return nil, fmt.Errorf("policy, programs and narration config are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := NewZapAdapter(deps.Logger)

	var narrator port.Narrator
	if deps.Narration.Enabled {
		narrator = deps.Narrator
	}
	timeout := deps.Narration.Timeout

	return &ServiceBundle{
		Validation: service.NewValidationService(
			service.NewValidator(deps.Policy.HighIncomeWarning),
			narrator, timeout, serviceLogger,
		),
		Eligibility: service.NewEligibilityService(
			service.NewScorer(buildPolicy(deps.Policy)),
			narrator, timeout, serviceLogger,
		),
		Recommendation: service.NewRecommendationService(
			service.NewMatcher(buildCatalog(deps.Programs), deps.Policy.LowIncomeThreshold),
			narrator, timeout, serviceLogger,
		),
	}, nil
}

// buildPolicy overlays configured thresholds on the default policy
func buildPolicy(cfg *PolicyConfig) service.Policy {
	policy := service.DefaultPolicy()
	if cfg.IncomeThreshold > 0 {
		policy.IncomeThreshold = cfg.IncomeThreshold
	}
	if cfg.FamilyBonusMinimum > 0 {
		policy.FamilyBonusMinimum = cfg.FamilyBonusMinimum
	}
	if cfg.RatioThreshold > 0 {
		policy.RatioThreshold = cfg.RatioThreshold
	}
	if cfg.CreditMinimum > 0 {
		policy.CreditMinimum = cfg.CreditMinimum
	}
	if cfg.DefaultEmploymentWeight > 0 {
		policy.DefaultEmploymentWeight = cfg.DefaultEmploymentWeight
	}
	for status, weight := range cfg.EmploymentWeights {
		policy.EmploymentWeights[entity.EmploymentStatus(status)] = weight
	}
	return policy
}

func buildCatalog(cfg *ProgramsConfig) service.ProgramCatalog {
	catalog := service.DefaultCatalog()
	if len(cfg.Upskilling) > 0 {
		catalog.Upskilling = cfg.Upskilling
	}
	if len(cfg.JobMatching) > 0 {
		catalog.JobMatching = cfg.JobMatching
	}
	if len(cfg.CareerCounseling) > 0 {
		catalog.CareerCounseling = cfg.CareerCounseling
	}
	return catalog
}

// ProvideDispatcher creates the event dispatcher.
// Returns dispatcher.Dispatcher implementation.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(NewZapAdapter(logger)),
	), nil
}

// WorkflowDeps holds dependencies required for creating the workflow engine.
type WorkflowDeps struct {
	Store      port.Store
	Extractor  port.Extractor
	Services   *ServiceBundle
	Dispatcher dispatcher.Dispatcher
	Cache      port.RunStateCache
	Registry   prometheus.Registerer
	Config     *WorkflowConfig
	Logger     *zap.Logger
}

// ProvideWorkflowEngine creates the workflow engine and registers the run
// event handlers.
func ProvideWorkflowEngine(deps *WorkflowDeps) (workflow.Engine, error) {
	if deps == nil {
		return nil, fmt.Errorf("workflow dependencies are required")
	}
	if deps.Services == nil {
		return nil, fmt.Errorf("services are required")
	}
	if deps.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("workflow config is required")
	}

	opts := []workflow.EngineOption{
		workflow.WithDispatcher(deps.Dispatcher),
		workflow.WithStageTimeout(deps.Config.StageTimeout),
		workflow.WithExtractionTimeout(deps.Config.ExtractionTimeout),
		workflow.WithExtractionConcurrency(deps.Config.ExtractionWorkers),
		workflow.WithLogger(deps.Logger),
	}
	if deps.Registry != nil {
		opts = append(opts, workflow.WithMetrics(metrics.New(deps.Registry)))
	}

	engine := workflow.NewEngine(
		deps.Store,
		deps.Extractor,
		deps.Services.Validation,
		deps.Services.Eligibility,
		deps.Services.Recommendation,
		opts...,
	)

	if deps.Cache != nil {
		deps.Dispatcher.SubscribeNamed(event.TypeStageCompleted, "run_state_cache", workflow.NewCacheWriter(deps.Cache))
	}
	deps.Dispatcher.SubscribeAll("event_logger", workflow.NewEventLogger(deps.Logger))

	return engine, nil
}

// ProvideWorkers creates the worker manager with the intake worker registered
// but not started.
func ProvideWorkers(cfg *WorkerConfig, engine workflow.Engine, logger *zap.Logger) (*worker.Manager, *worker.IntakeWorker, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("worker config is required")
	}
	if engine == nil {
		return nil, nil, fmt.Errorf("workflow engine is required")
	}

	manager := worker.NewManager(logger)
	if !cfg.Enabled {
		return manager, nil, nil
	}

	intake := worker.NewIntakeWorker(worker.IntakeWorkerConfig{
		QueueSize:  cfg.QueueSize,
		Consumers:  cfg.Consumers,
		RunTimeout: cfg.RunTimeout,
	}, engine, logger)
	manager.Register(intake)

	return manager, intake, nil
}
