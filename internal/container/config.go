// Package container provides dependency injection and lifecycle management
// for the social support intake service.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// OpenAI configuration
	OpenAI OpenAIConfig

	// Narration configuration
	Narration NarrationConfig

	// Workflow engine configuration
	Workflow WorkflowConfig

	// Scoring and validation thresholds
	Policy PolicyConfig

	// Enablement program catalog
	Programs ProgramsConfig

	// Storage configuration
	Storage StorageConfig

	// Redis run-state cache configuration
	Redis RedisConfig

	// Server configuration
	Server ServerConfig

	// Worker configuration
	Worker WorkerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	// APIKey is the OpenAI API key. Without it no narrator or resume
	// classifier is built.
	APIKey string

	// BaseURL points at an OpenAI-compatible endpoint
	BaseURL string

	// Model is the model to use (e.g., "gpt-4o-mini")
	Model string

	// PromptsPath is an optional YAML file overriding the built-in prompts
	PromptsPath string
}

// NarrationConfig controls the optional explanation text.
type NarrationConfig struct {
	Enabled bool
	Timeout time.Duration
}

// WorkflowConfig bounds the engine's stages.
type WorkflowConfig struct {
	StageTimeout      time.Duration
	ExtractionTimeout time.Duration
	ExtractionWorkers int
}

// PolicyConfig holds the eligibility and validation thresholds.
type PolicyConfig struct {
	IncomeThreshold         float64
	FamilyBonusMinimum      int
	RatioThreshold          float64
	CreditMinimum           int
	HighIncomeWarning       float64
	LowIncomeThreshold      float64
	EmploymentWeights       map[string]float64
	DefaultEmploymentWeight float64
}

// ProgramsConfig lists enablement programs. Empty lists select the defaults.
type ProgramsConfig struct {
	Upskilling       []string
	JobMatching      []string
	CareerCounseling []string
}

// StorageConfig holds file storage settings.
type StorageConfig struct {
	// UploadDir is the base directory for uploaded documents
	UploadDir string
}

// RedisConfig holds run-state cache settings. An empty address disables the cache.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration

	// MaxUploadBytes caps a single document upload
	MaxUploadBytes int64
}

// WorkerConfig holds background intake worker settings.
type WorkerConfig struct {
	Enabled    bool
	QueueSize  int
	Consumers  int
	RunTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/social_support.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Narration: NarrationConfig{
			Enabled: true,
			Timeout: 20 * time.Second,
		},
		Workflow: WorkflowConfig{
			StageTimeout:      30 * time.Second,
			ExtractionTimeout: 60 * time.Second,
			ExtractionWorkers: 4,
		},
		Policy: PolicyConfig{
			IncomeThreshold:         15000,
			FamilyBonusMinimum:      3,
			RatioThreshold:          0.5,
			CreditMinimum:           300,
			HighIncomeWarning:       1_000_000,
			LowIncomeThreshold:      10000,
			DefaultEmploymentWeight: 0.5,
		},
		Storage: StorageConfig{
			UploadDir: "data/uploads",
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute,
			MaxUploadBytes: 20 << 20,
		},
		Worker: WorkerConfig{
			Enabled:    true,
			QueueSize:  64,
			Consumers:  2,
			RunTimeout: 5 * time.Minute,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir is required")
	}

	if c.Workflow.StageTimeout <= 0 || c.Workflow.ExtractionTimeout <= 0 {
		return fmt.Errorf("workflow timeouts must be positive")
	}
	if c.Workflow.ExtractionWorkers < 1 {
		return fmt.Errorf("workflow.extraction_workers must be at least 1")
	}

	if c.Policy.IncomeThreshold <= 0 {
		return fmt.Errorf("policy.income_threshold must be positive")
	}
	if c.Policy.RatioThreshold <= 0 {
		return fmt.Errorf("policy.ratio_threshold must be positive")
	}

	if c.Worker.Enabled && (c.Worker.QueueSize < 1 || c.Worker.Consumers < 1) {
		return fmt.Errorf("worker.queue_size and worker.consumers must be at least 1")
	}

	return nil
}
