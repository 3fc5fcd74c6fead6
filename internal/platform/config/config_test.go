package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("sms_command_service")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8085, cfg.SMSCommandServicePort)
	assert.Equal(t, 9099, cfg.SMSCommandServiceMetricsPort)
	assert.Equal(t, "/webhooks/sms", cfg.WebhookPath)
	assert.Equal(t, "sms-media", cfg.StorageBucket)
	assert.Equal(t, 15*time.Second, cfg.MediaFetchTimeout)
	assert.Equal(t, 30*time.Second, cfg.StorageUploadTimeout)
	assert.Equal(t, 4, cfg.MediaConcurrency)
	assert.False(t, cfg.ValidateSignature)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_SMS_COMMAND_SERVICE_PORT", "9000")
	t.Setenv("APP_VALIDATE_SIGNATURE", "true")
	t.Setenv("APP_MEDIA_FETCH_TIMEOUT", "3s")
	t.Setenv("APP_STORAGE_BUCKET", "inbound")

	cfg, err := Load("sms_command_service")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.SMSCommandServicePort)
	assert.True(t, cfg.ValidateSignature)
	assert.Equal(t, 3*time.Second, cfg.MediaFetchTimeout)
	assert.Equal(t, "inbound", cfg.StorageBucket)
}

// chdirTemp moves into an empty directory so no config.defaults.yaml is found.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
