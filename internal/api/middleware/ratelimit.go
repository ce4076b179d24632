package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/kitamove/kitamove/internal/api/models"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// Requests per window. Zero or less disables the limit.
	RequestLimit int
	// Window duration
	WindowLength time.Duration
}

// PerMinute returns a per-minute limit of n requests.
func PerMinute(n int) RateLimitConfig {
	return RateLimitConfig{RequestLimit: n, WindowLength: time.Minute}
}

// Enabled reports whether the configuration limits anything.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestLimit > 0 && c.WindowLength > 0
}

// RateLimitByIP creates a rate limiter middleware using client IP address.
// Uses X-Forwarded-For header if present (extracted by chi's RealIP middleware).
// A disabled configuration returns a pass-through middleware.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	retryAfter := strconv.Itoa(int(cfg.WindowLength.Round(time.Second) / time.Second))
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			// httprate does not expose the reset time; the window length is an upper bound.
			w.Header().Set("Retry-After", retryAfter)
			models.NewError(GetRequestID(r.Context()), models.MessageRateLimited).Write(w, http.StatusTooManyRequests)
		}),
	)
}
