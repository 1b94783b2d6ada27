package config

import (
	"github.com/SarthakGarg19/social-support-ai/internal/container"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		OpenAI: container.OpenAIConfig{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			PromptsPath: c.Prompts.Path,
		},
		Narration: container.NarrationConfig{
			Enabled: c.Narration.Enabled,
			Timeout: c.Narration.Timeout,
		},
		Workflow: container.WorkflowConfig{
			StageTimeout:      c.Workflow.StageTimeout,
			ExtractionTimeout: c.Workflow.ExtractionTimeout,
			ExtractionWorkers: c.Workflow.ExtractionWorkers,
		},
		Policy: container.PolicyConfig{
			IncomeThreshold:         c.Policy.IncomeThreshold,
			FamilyBonusMinimum:      c.Policy.FamilyBonusMinimum,
			RatioThreshold:          c.Policy.RatioThreshold,
			CreditMinimum:           c.Policy.CreditMinimum,
			HighIncomeWarning:       c.Policy.HighIncomeWarning,
			LowIncomeThreshold:      c.Policy.LowIncomeThreshold,
			EmploymentWeights:       c.Policy.EmploymentWeights,
			DefaultEmploymentWeight: c.Policy.DefaultEmploymentWeight,
		},
		Programs: container.ProgramsConfig{
			Upskilling:       c.Programs.Upskilling,
			JobMatching:      c.Programs.JobMatching,
			CareerCounseling: c.Programs.CareerCounseling,
		},
		Storage: container.StorageConfig{
			UploadDir: c.Storage.UploadDir,
		},
		Redis: container.RedisConfig{
			Address:  c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			TTL:      c.Redis.TTL,
		},
		Server: container.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			MaxUploadBytes: c.Server.MaxUploadBytes,
		},
		Worker: container.WorkerConfig{
			Enabled:    c.Worker.Enabled,
			QueueSize:  c.Worker.QueueSize,
			Consumers:  c.Worker.Consumers,
			RunTimeout: c.Worker.RunTimeout,
		},
	}
}

// ToLoggerConfig converts the logger section for utils.NewLogger
func (c *Config) ToLoggerConfig() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
