package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Empty(t, cfg.Cluster.Name)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.False(t, cfg.Metrics.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestApplyDefaults(t *testing.T) {
	t.Run("preserves explicit values", func(t *testing.T) {
		cfg := &Config{
			Logging:         LoggingConfig{Level: "debug", Format: "json", Output: "stderr"},
			Cluster:         ClusterConfig{Name: "PRODCLUS"},
			ShutdownTimeout: 5 * time.Second,
		}
		ApplyDefaults(cfg)

		assert.Equal(t, "DEBUG", cfg.Logging.Level, "level is normalized to uppercase")
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "PRODCLUS", cfg.Cluster.Name)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("fills metrics port only when enabled", func(t *testing.T) {
		cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
		ApplyDefaults(cfg)
		assert.Equal(t, 9090, cfg.Metrics.Port)

		cfg = &Config{}
		ApplyDefaults(cfg)
		assert.Zero(t, cfg.Metrics.Port)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects an invalid log level", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = "LOUD"
		assert.Error(t, Validate(cfg))
	})

	t.Run("rejects an invalid log format", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Logging.Format = "xml"
		assert.Error(t, Validate(cfg))
	})

	t.Run("rejects an out-of-range API port", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.API.Port = 70000
		assert.Error(t, Validate(cfg))
	})

	t.Run("rejects a zero shutdown timeout", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.ShutdownTimeout = 0
		assert.Error(t, Validate(cfg))
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads a YAML file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
cluster:
  name: PRODCLUS
api:
  port: 9001
metrics:
  enabled: true
shutdown_timeout: 15s
`), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "DEBUG", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "PRODCLUS", cfg.Cluster.Name)
		assert.Equal(t, 9001, cfg.API.Port)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)
		assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cluster:\n  name: FILECLUS\nlogging:\n  level: info\n"), 0600))

		t.Setenv("CLUSD_CLUSTER_NAME", "ENVCLUS")
		t.Setenv("CLUSD_LOGGING_LEVEL", "warn")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "ENVCLUS", cfg.Cluster.Name)
		assert.Equal(t, "WARN", cfg.Logging.Level)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "INFO", cfg.Logging.Level)
	})

	t.Run("rejects an invalid file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: LOUD\n"), 0600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Cluster.Name = "PRODCLUS"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PRODCLUS", loaded.Cluster.Name)
	assert.Equal(t, cfg.Logging.Level, loaded.Logging.Level)
}
