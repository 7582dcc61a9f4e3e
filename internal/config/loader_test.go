package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "chronos", cfg.Service)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://wttr.in", cfg.Weather.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Weather.CacheTTL)
	assert.True(t, cfg.Geo.AutoDetect)
	assert.Equal(t, "gemini-2.0-flash", cfg.Generative.Model)
	assert.Equal(t, []string{"*"}, cfg.Security.CorsAllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "test-key")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("WEATHER_CACHE_TTL", "5m")
	t.Setenv("GEO_AUTODETECT", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Weather.CacheTTL)
	assert.False(t, cfg.Geo.AutoDetect)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CorsAllowedOrigins)
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrValidation, cfgErr.Type)
}

func TestLoadConfigInvalidEnvironment(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "test-key")
	t.Setenv("APP_ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrValidation, cfgErr.Type)
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "test-key")
	t.Setenv("WEATHER_TIMEOUT", "not-a-duration")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrParsing, cfgErr.Type)
}

func TestLoadConfigSecretRedaction(t *testing.T) {
	t.Setenv("GENERATIVE_API_KEY", "super-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.NotContains(t, cfg.Generative.APIKey.String(), "super-secret")
	assert.Equal(t, "super-secret", cfg.Generative.APIKey.Unmask())
}

func TestBuildInfoDefaults(t *testing.T) {
	info := NewBuildInfo()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "none", info.Commit)
	assert.Equal(t, "unknown", info.BuildTime)
}
