package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-tracker-service/internal/config"
	"job-tracker-service/internal/workflow"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JOB_MANAGER_URL", "http://job-manager:8080")
	t.Setenv("FLOWS_CONFIG", "")
	t.Setenv("WORKERS", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.JobManagerTimeout)
	assert.Equal(t, "tasks:finished", cfg.QueueKey)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "job-tracker", cfg.ServiceName)
	assert.Equal(t, workflow.DefaultDefinitions(), cfg.Definitions)
}

func TestLoad_RequiresJobManagerURL(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JOB_MANAGER_URL", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := writeFile(t, "tracker.env", "JOB_MANAGER_URL=http://jm.local\nWORKERS=7\nJOB_MANAGER_TIMEOUT=3s\n")
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("FLOWS_CONFIG", "")
	// godotenv never overrides variables already set; make sure these start unset.
	t.Setenv("JOB_MANAGER_URL", "")
	os.Unsetenv("JOB_MANAGER_URL")
	t.Setenv("WORKERS", "")
	os.Unsetenv("WORKERS")
	t.Setenv("JOB_MANAGER_TIMEOUT", "")
	os.Unsetenv("JOB_MANAGER_TIMEOUT")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://jm.local", cfg.JobManagerURL)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 3*time.Second, cfg.JobManagerTimeout)
}

func TestLoadDefinitions_Override(t *testing.T) {
	path := writeFile(t, "flows.yaml", `
jobs:
  seed: Seeding
flows:
  seed:
    sequence: [TilesSeeding, cleanup]
    suspendOnFailureOf: [cleanup]
`)

	defs, err := config.LoadDefinitions(path)
	require.NoError(t, err)

	assert.Equal(t, "Seeding", defs.Jobs.Seed)
	assert.Equal(t, "Export", defs.Jobs.Export)
	assert.Equal(t, []string{"TilesSeeding", "cleanup"}, defs.Flows.Seed.Sequence)
	assert.True(t, defs.Flows.Seed.SuspendsOnFailure("cleanup"))
	assert.Equal(t, workflow.DefaultDefinitions().Flows.Ingestion, defs.Flows.Ingestion)
}

func TestLoadDefinitions_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown stage in subset": `
flows:
  export:
    sequence: [init, finalize]
    excludedFromCreation: [tilesExporting]
`,
		"empty sequence": `
flows:
  seed:
    sequence: []
`,
		"job type on two flows": `
jobs:
  export: TilesSeeding
`,
		"malformed yaml": "flows: [",
		"misspelled set name": `
flows:
  export:
    excludedFromCreaton: []
`,
		"unknown flow": `
flows:
  delete:
    sequence: [init]
`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadDefinitions(writeFile(t, "flows.yaml", content))
			require.Error(t, err)
		})
	}
}

func TestLoadDefinitions_MissingFile(t *testing.T) {
	_, err := config.LoadDefinitions(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t,
		"postgres://tracker:****@db:5432/tracker?sslmode=disable",
		config.RedactDSN("postgres://tracker:s3cret@db:5432/tracker?sslmode=disable"))
	assert.Equal(t, "postgres://db:5432/tracker", config.RedactDSN("postgres://db:5432/tracker"))
}

func TestLoadDefinitions_EmptyFileKeepsDefaults(t *testing.T) {
	defs, err := config.LoadDefinitions(writeFile(t, "flows.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, workflow.DefaultDefinitions(), defs)
}

func TestLoadQueue_IgnoresTrackerSettings(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JOB_MANAGER_URL", "")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_QUEUE_KEY", "")

	cfg, err := config.LoadQueue()
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "tasks:finished", cfg.QueueKey)
	assert.Equal(t, "tasks:finished:processing", cfg.ProcessingKey)
}

func TestLoadQueue_RequiresRedisAddr(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("REDIS_ADDR", "")

	_, err := config.LoadQueue()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}
