package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("URLSHORT_AUTH_JWT_SECRET", "secret")

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, "http://localhost:8080", cfg.GetBaseURL())
	assert.Equal(t, 10, cfg.App.MaxRetries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.GetAllowedOrigins())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("URLSHORT_AUTH_JWT_SECRET", "secret")
	t.Setenv("URLSHORT_APP_BASE_URL", "https://sho.rt/")
	t.Setenv("URLSHORT_APP_MAX_RETRIES", "3")
	t.Setenv("URLSHORT_APP_ENVIRONMENT", "production")

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "https://sho.rt", cfg.GetBaseURL())
	assert.Equal(t, 3, cfg.App.MaxRetries)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://sho.rt"}, cfg.GetAllowedOrigins())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("URLSHORT_AUTH_JWT_SECRET", "")

	_, err := load(viper.New(), false)
	assert.Error(t, err)
}
