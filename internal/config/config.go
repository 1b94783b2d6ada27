package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Narration NarrationConfig `mapstructure:"narration"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Programs  ProgramsConfig  `mapstructure:"programs"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// Empty means the migrations embedded in the binary
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// NarrationConfig controls generated explanation text
type NarrationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkflowConfig holds engine timeouts and pool size
type WorkflowConfig struct {
	StageTimeout      time.Duration `mapstructure:"stage_timeout"`
	ExtractionTimeout time.Duration `mapstructure:"extraction_timeout"`
	ExtractionWorkers int           `mapstructure:"extraction_workers"`
}

// PolicyConfig holds scoring and validation thresholds
type PolicyConfig struct {
	IncomeThreshold         float64            `mapstructure:"income_threshold"`
	FamilyBonusMinimum      int                `mapstructure:"family_bonus_minimum"`
	RatioThreshold          float64            `mapstructure:"ratio_threshold"`
	CreditMinimum           int                `mapstructure:"credit_minimum"`
	HighIncomeWarning       float64            `mapstructure:"high_income_warning"`
	LowIncomeThreshold      float64            `mapstructure:"low_income_threshold"`
	EmploymentWeights       map[string]float64 `mapstructure:"employment_weights"`
	DefaultEmploymentWeight float64            `mapstructure:"default_employment_weight"`
}

// ProgramsConfig overrides the enablement program catalog
type ProgramsConfig struct {
	Upskilling       []string `mapstructure:"upskilling"`
	JobMatching      []string `mapstructure:"job_matching"`
	CareerCounseling []string `mapstructure:"career_counseling"`
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
}

// RedisConfig holds run-state cache configuration
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// WorkerConfig holds background intake worker configuration
type WorkerConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	QueueSize  int           `mapstructure:"queue_size"`
	Consumers  int           `mapstructure:"consumers"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// PromptsConfig points at an optional prompt override file
type PromptsConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from a .env file, the YAML file at configPath
// and environment variables. An empty configPath runs on defaults and
// environment alone.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	}
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from path when it exists. Variables already
// set in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.max_upload_bytes", 20<<20)

	// Database defaults
	v.SetDefault("database.path", "data/social_support.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")

	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")

	// Narration defaults
	v.SetDefault("narration.enabled", true)
	v.SetDefault("narration.timeout", 20*time.Second)

	// Workflow defaults
	v.SetDefault("workflow.stage_timeout", 30*time.Second)
	v.SetDefault("workflow.extraction_timeout", 60*time.Second)
	v.SetDefault("workflow.extraction_workers", 4)

	// Policy defaults
	v.SetDefault("policy.income_threshold", 15000.0)
	v.SetDefault("policy.family_bonus_minimum", 3)
	v.SetDefault("policy.ratio_threshold", 0.5)
	v.SetDefault("policy.credit_minimum", 300)
	v.SetDefault("policy.high_income_warning", 1_000_000.0)
	v.SetDefault("policy.low_income_threshold", 10000.0)
	v.SetDefault("policy.default_employment_weight", 0.5)

	// Storage defaults
	v.SetDefault("storage.upload_dir", "data/uploads")

	// Redis defaults; no address means no cache
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	// Worker defaults
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.queue_size", 64)
	v.SetDefault("worker.consumers", 2)
	v.SetDefault("worker.run_timeout", 5*time.Minute)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("prompts.path", "")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Deployment overrides
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("storage.upload_dir", "UPLOAD_DIR")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("narration.enabled", "NARRATION_ENABLED")
	_ = v.BindEnv("prompts.path", "PROMPTS_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Workflow.ExtractionWorkers < 1 {
		return fmt.Errorf("workflow.extraction_workers must be at least 1")
	}

	if c.Policy.IncomeThreshold <= 0 {
		return fmt.Errorf("policy.income_threshold must be positive")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	return nil
}
