package config_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitamove/kitamove/internal/config"
)

var allKeys = []string{
	"APP_PORT", "APP_ENV", "LOG_LEVEL", "ROUTE_MODE", "MOCK_DELAY",
	"UPSTREAM_TIMEOUT", "UPSTREAM_MAX_RETRIES", "OSRM_BASE_URL", "ORS_BASE_URL",
	"ORS_API_KEY", "RATE_LIMIT_PER_MINUTE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_TRACES_SAMPLER_ARG", "CORS_ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, config.ModeMalaysia, cfg.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.MockDelay)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, uint64(0), cfg.UpstreamMaxRetries)
	assert.Equal(t, "https://router.project-osrm.org", cfg.OSRMBaseURL)
	assert.Equal(t, "https://api.openrouteservice.org", cfg.ORSBaseURL)
	assert.Empty(t, cfg.ORSAPIKey)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.False(t, cfg.OTelEnabled)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, 1.0, cfg.OTelSampleRatio)
	assert.Empty(t, cfg.AllowedOrigins)

	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ROUTE_MODE", "Proxy")
	t.Setenv("MOCK_DELAY", "0s")
	t.Setenv("UPSTREAM_TIMEOUT", "2500ms")
	t.Setenv("UPSTREAM_MAX_RETRIES", "2")
	t.Setenv("ORS_API_KEY", "secret")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://kitamove.my, ,http://localhost:3000")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, config.ModeProxy, cfg.Mode)
	assert.Equal(t, time.Duration(0), cfg.MockDelay)
	assert.Equal(t, 2500*time.Millisecond, cfg.UpstreamTimeout)
	assert.Equal(t, uint64(2), cfg.UpstreamMaxRetries)
	assert.Equal(t, "secret", cfg.ORSAPIKey)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.OTelEnabled)
	assert.Equal(t, 0.1, cfg.OTelSampleRatio)
	assert.Equal(t, []string{"https://kitamove.my", "http://localhost:3000"}, cfg.AllowedOrigins)

	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_MalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOCK_DELAY", "half a second")
	t.Setenv("UPSTREAM_MAX_RETRIES", "-1")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := config.FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOCK_DELAY")
	assert.Contains(t, err.Error(), "UPSTREAM_MAX_RETRIES")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestConfig_Validate(t *testing.T) {
	valid := config.Config{
		Port:            "5000",
		Mode:            config.ModeMalaysia,
		MockDelay:       500 * time.Millisecond,
		UpstreamTimeout: 5 * time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"valid malaysia", func(*config.Config) {}, ""},
		{"valid mock", func(c *config.Config) { c.Mode = config.ModeMock }, ""},
		{"proxy without key", func(c *config.Config) { c.Mode = config.ModeProxy }, "ORS_API_KEY"},
		{"proxy with key", func(c *config.Config) { c.Mode = config.ModeProxy; c.ORSAPIKey = "k" }, ""},
		{"unknown mode", func(c *config.Config) { c.Mode = "dynamic" }, "ROUTE_MODE"},
		{"empty port", func(c *config.Config) { c.Port = "" }, "APP_PORT"},
		{"negative delay", func(c *config.Config) { c.MockDelay = -time.Second }, "MOCK_DELAY"},
		{"zero timeout", func(c *config.Config) { c.UpstreamTimeout = 0 }, "UPSTREAM_TIMEOUT"},
		{"negative rate limit", func(c *config.Config) { c.RateLimitPerMinute = -1 }, "RATE_LIMIT_PER_MINUTE"},
		{"sample ratio above one", func(c *config.Config) { c.OTelSampleRatio = 1.5 }, "OTEL_TRACES_SAMPLER_ARG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
