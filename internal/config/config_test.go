package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 8081
database:
  path: /tmp/intake-test.db
workflow:
  stage_timeout: 45s
  extraction_workers: 8
policy:
  income_threshold: 12000
  employment_weights:
    employed: 0.75
programs:
  job_matching:
    - Portal Registration
redis:
  address: localhost:6379
worker:
  enabled: false
logger:
  format: console
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "/tmp/intake-test.db", cfg.Database.Path)
	assert.Equal(t, 45*time.Second, cfg.Workflow.StageTimeout)
	assert.Equal(t, 60*time.Second, cfg.Workflow.ExtractionTimeout)
	assert.Equal(t, 8, cfg.Workflow.ExtractionWorkers)
	assert.Equal(t, 12000.0, cfg.Policy.IncomeThreshold)
	assert.Equal(t, 0.75, cfg.Policy.EmploymentWeights["employed"])
	assert.Equal(t, []string{"Portal Registration"}, cfg.Programs.JobMatching)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.False(t, cfg.Worker.Enabled)
	assert.True(t, cfg.Narration.Enabled)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/social_support.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Workflow.ExtractionWorkers)
	assert.Empty(t, cfg.Redis.Address)
	assert.True(t, cfg.Worker.Enabled)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	_, err := Load(writeConfig(t, "logger:\n  format: xml\n"))
	assert.ErrorContains(t, err, "logger.format")
}

func TestToContainerConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cc := cfg.ToContainerConfig()
	require.NoError(t, cc.Validate())

	assert.Equal(t, cfg.Database.Path, cc.Database.Path)
	assert.Equal(t, cfg.Workflow.StageTimeout, cc.Workflow.StageTimeout)
	assert.Equal(t, cfg.Policy.EmploymentWeights, cc.Policy.EmploymentWeights)
	assert.Equal(t, cfg.Redis.Address, cc.Redis.Address)
	assert.Equal(t, cfg.Server.MaxUploadBytes, cc.Server.MaxUploadBytes)
	assert.False(t, cc.Worker.Enabled)

	logCfg := cfg.ToLoggerConfig()
	assert.Equal(t, "console", logCfg.Format)
}
