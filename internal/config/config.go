// Package config defines the global configuration structure for the Chronos
// planning service. Configuration is loaded once at process initialization
// and is immutable thereafter. It follows 12-Factor App principles by
// strictly separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to
// fail immediately on startup.
package config

import (
	"time"

	"chronos/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the Chronos service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"chronos"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server     ServerConfig
	Weather    WeatherConfig
	Geo        GeoConfig
	Generative GenerativeConfig
	Security   SecurityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server tuning parameters.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// WeatherConfig holds the live forecast source and cache settings.
type WeatherConfig struct {
	BaseURL  string        `envconfig:"WEATHER_BASE_URL" default:"https://wttr.in" validate:"required,url"`
	Timeout  time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"30m"`
}

// GeoConfig holds IP-geolocation settings. When AutoDetect is false the
// location resolver never calls the geolocation service.
type GeoConfig struct {
	AutoDetect bool          `envconfig:"GEO_AUTODETECT" default:"true"`
	BaseURL    string        `envconfig:"GEO_BASE_URL" default:"http://ip-api.com" validate:"required,url"`
	Timeout    time.Duration `envconfig:"GEO_TIMEOUT" default:"5s"`
}

// GenerativeConfig holds the generative collaborator endpoint and
// credentials. The endpoint must expose an OpenAI-compatible chat API.
type GenerativeConfig struct {
	BaseURL string        `envconfig:"GENERATIVE_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai" validate:"required,url"`
	Model   string        `envconfig:"GENERATIVE_MODEL" default:"gemini-2.0-flash"`
	APIKey  SecretString  `envconfig:"GENERATIVE_API_KEY" validate:"required"`
	Timeout time.Duration `envconfig:"GENERATIVE_TIMEOUT" default:"90s"`
}

// SecurityConfig holds CORS settings for the HTTP surface.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
