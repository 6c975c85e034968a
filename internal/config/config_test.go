package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "azure", cfg.Storage.Backend)
	assert.Equal(t, int32(0), cfg.Storage.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Storage.Timeout)
	assert.Empty(t, cfg.Auth.FunctionKeys)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadRequiresConnectionStringForAzure(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "azure")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_STORAGE_CONNECTION_STRING")
}

func TestLoadRequiresDBURLForPostgres(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMemoryBackendOnlyInLocalEnvironments(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")

	t.Setenv("APP_ENV", "dev")
	_, err := Load()
	require.NoError(t, err)

	t.Setenv("APP_ENV", "production")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadCustomHandlerPortWins(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("PORT", "9000")
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "7071")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7071, cfg.Server.Port)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesFunctionKeys(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("FUNCTION_KEYS", " key-a , ,key-b,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"key-a", "key-b"}, cfg.Auth.FunctionKeys)
}

func TestLoadClampsRetries(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("STORAGE_MAX_RETRIES", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.Storage.MaxRetries)
}
