package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goto/truora/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should apply defaults when file does not exist", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, 0, cfg.HTTP.RetryCount)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "truora", cfg.Telemetry.ServiceName)
		assert.True(t, cfg.Telemetry.OTLP.Insecure)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricInterval)
		assert.NotEmpty(t, cfg.CredentialsFile)
		assert.False(t, cfg.Credential.IsSet())
	})

	t.Run("should read values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
log_level: debug
credentials_file: /tmp/creds.yaml
encryption_secret_key: s3cr3t
credential:
  api_key: K
  base_url: https://api.validations.truora.com/v1
http:
  timeout: 5s
  retry_count: 2
telemetry:
  enabled: true
  sampling_fraction: 0.5
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "/tmp/creds.yaml", cfg.CredentialsFile)
		assert.Equal(t, "/tmp/audit.log", cfg.AuditFile)
		assert.Equal(t, "s3cr3t", cfg.EncryptionSecretKey)
		assert.True(t, cfg.Credential.IsSet())
		assert.Equal(t, "https://api.validations.truora.com/v1", cfg.Credential.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, 2, cfg.HTTP.RetryCount)
		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, 0.5, cfg.Telemetry.SamplingFraction)
	})

	t.Run("should read durations from env without a file", func(t *testing.T) {
		t.Setenv("TRUORA_HTTP_TIMEOUT", "10s")
		t.Setenv("TRUORA_TELEMETRY_METRIC_INTERVAL", "1m")

		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, time.Minute, cfg.Telemetry.MetricInterval)
	})

	t.Run("should return error on malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: [debug"), 0o600))

		_, err := config.Load(path)

		assert.Error(t, err)
	})
}
