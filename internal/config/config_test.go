package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_BASE_URL", "API_TIMEOUT", "PORT", "APP_NAME", "CLINIC_TIMEZONE", "METRICS_ENABLED"} {
		unsetenv(t, k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "petcheck-dashboard", cfg.AppName)
	assert.True(t, cfg.MetricsEnabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://vet.example.com/api/v1")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("PORT", "9090")
	t.Setenv("CLINIC_TIMEZONE", "America/Argentina/Buenos_Aires")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://vet.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.False(t, cfg.MetricsEnabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Argentina/Buenos_Aires", loc.String())
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("CLINIC_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

// unsetenv borra la variable y la restaura al terminar el test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
