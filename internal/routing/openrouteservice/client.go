// Package openrouteservice relays driving directions requests to OpenRouteService.
package openrouteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/provider/resilience"
	"github.com/kitamove/kitamove/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	maxRelayBytes = 16 << 20
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenRouteService client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to ORS API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client without retries.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouteService API client.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   HTTPDoer
	maxBodyBytes int64
	logger       zerolog.Logger
}

// RelayResponse is the upstream answer, untouched.
type RelayResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewClient creates a new OpenRouteService client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.MaxRetries = 0
		// ORS error answers are relayed, so only unreachable upstreams trip the breaker.
		clientCfg.CircuitBreaker.IsSuccessful = resilience.OnlyTransportErrors
		clientCfg.Registry = cfg.Registry
		clientCfg.Logger = cfg.Logger
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		httpClient:   httpClient,
		maxBodyBytes: maxRelayBytes,
		logger:       cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Relay requests driving-car directions between from and to and returns the
// upstream status and body verbatim. Only a transport failure is an error;
// upstream 4xx and 5xx answers are returned as a RelayResponse.
func (c *Client) Relay(ctx context.Context, from, to geo.Coordinate) (*RelayResponse, error) {
	if err := from.Validate(); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      err,
		}
	}
	if err := to.Validate(); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      err,
		}
	}

	body, err := json.Marshal(directionsRequest{
		// ORS uses [lon, lat] order (GeoJSON)
		Coordinates: [][2]float64{from.LngLat(), to.LngLat()},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, routing.Profile)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json, application/geo+json")

	c.logger.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("relaying directions request to ORS")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		code := "REQUEST_FAILED"
		if errors.Is(err, resilience.ErrCircuitOpen) {
			code = "CIRCUIT_OPEN"
		}
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     code,
			Message:  "failed to reach routing provider",
			Err:      errors.Join(routing.ErrProviderUnavailable, err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err == nil && int64(len(respBody)) > c.maxBodyBytes {
		err = fmt.Errorf("response exceeds %d bytes", c.maxBodyBytes)
	}
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "READ_FAILED",
			Message:  "failed to read routing provider response",
			Err:      errors.Join(routing.ErrProviderUnavailable, err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		c.logUpstreamError(resp.StatusCode, respBody)
	}

	return &RelayResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// logUpstreamError records the ORS error code and message when the body carries one.
func (c *Client) logUpstreamError(statusCode int, body []byte) {
	event := c.logger.Warn().Int("status", statusCode)

	var orsErr errorResponse
	if err := json.Unmarshal(body, &orsErr); err == nil && orsErr.Error.Message != "" {
		event = event.Int("ors_code", orsErr.Error.Code).Str("ors_message", orsErr.Error.Message)
	}
	event.Msg("ORS returned an error; relaying as-is")
}
