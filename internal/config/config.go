// Package config loads the server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects how POST /api/route is answered.
type Mode string

const (
	// ModeMock serves a jittered straight line after an artificial delay.
	ModeMock Mode = "mock"
	// ModeMalaysia checks Malaysia bounds, asks OSRM and falls back to road snapping.
	ModeMalaysia Mode = "malaysia"
	// ModeProxy relays the request to OpenRouteService.
	ModeProxy Mode = "proxy"
)

// Config holds the server configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    zerolog.Level

	Mode      Mode
	MockDelay time.Duration

	UpstreamTimeout    time.Duration
	UpstreamMaxRetries uint64
	OSRMBaseURL        string
	ORSBaseURL         string
	ORSAPIKey          string

	// RateLimitPerMinute caps requests per client IP. Zero disables the limit.
	RateLimitPerMinute int
	// AllowedOrigins restricts CORS. Empty allows any origin.
	AllowedOrigins []string

	OTelEnabled     bool
	OTLPEndpoint    string
	OTelSampleRatio float64
}

// FromEnv reads the configuration from environment variables.
// Malformed values are errors; unset values take their defaults.
func FromEnv() (Config, error) {
	var errs []error

	level, err := zerolog.ParseLevel(strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	cfg := Config{
		Port:         getEnvOrDefault("APP_PORT", "5000"),
		Environment:  getEnvOrDefault("APP_ENV", "development"),
		LogLevel:     level,
		Mode:         Mode(strings.ToLower(getEnvOrDefault("ROUTE_MODE", string(ModeMalaysia)))),
		OSRMBaseURL:  getEnvOrDefault("OSRM_BASE_URL", "https://router.project-osrm.org"),
		ORSBaseURL:   getEnvOrDefault("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSAPIKey:    os.Getenv("ORS_API_KEY"),
		OTelEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	cfg.MockDelay, err = time.ParseDuration(getEnvOrDefault("MOCK_DELAY", "500ms"))
	if err != nil {
		errs = append(errs, fmt.Errorf("MOCK_DELAY: %w", err))
	}
	cfg.UpstreamTimeout, err = time.ParseDuration(getEnvOrDefault("UPSTREAM_TIMEOUT", "5s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err))
	}
	cfg.UpstreamMaxRetries, err = strconv.ParseUint(getEnvOrDefault("UPSTREAM_MAX_RETRIES", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_MAX_RETRIES: %w", err))
	}
	cfg.RateLimitPerMinute, err = strconv.Atoi(getEnvOrDefault("RATE_LIMIT_PER_MINUTE", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err))
	}
	cfg.OTelSampleRatio, err = strconv.ParseFloat(getEnvOrDefault("OTEL_TRACES_SAMPLER_ARG", "1"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG: %w", err))
	}
	cfg.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the configuration is usable for the selected mode.
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeMock, ModeMalaysia:
	case ModeProxy:
		if c.ORSAPIKey == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required in proxy mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("ROUTE_MODE %q is not one of mock, malaysia, proxy", c.Mode))
	}

	if c.Port == "" {
		errs = append(errs, errors.New("APP_PORT must not be empty"))
	}
	if c.MockDelay < 0 {
		errs = append(errs, errors.New("MOCK_DELAY must not be negative"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_TRACES_SAMPLER_ARG must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
