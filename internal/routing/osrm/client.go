// Package osrm provides a client for the OSRM route service.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/provider/resilience"
	"github.com/kitamove/kitamove/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default per-attempt request timeout.
	DefaultTimeout = 5 * time.Second

	// Attribution is reported in response metadata for OSRM routes.
	Attribution = "OSRM Directions API"

	maxResponseBytes = 8 << 20
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the OSRM server (optional, defaults to the public demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with Timeout and MaxRetries.
	HTTPClient HTTPDoer

	// Timeout is the per-attempt request timeout (optional, defaults to 5s).
	Timeout time.Duration

	// MaxRetries is passed to the default resilient client.
	MaxRetries uint64

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM route service client. It implements routing.Provider.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
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
		clientCfg.MaxRetries = cfg.MaxRetries
		clientCfg.Registry = cfg.Registry
		clientCfg.Logger = cfg.Logger
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetRoute fetches the full-overview driving route between the request endpoints.
func (c *Client) GetRoute(ctx context.Context, req routing.RouteRequest) (*routing.Route, error) {
	url := c.routeURL(req.Origin, req.Destination)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("from", req.Origin.String()).
		Str("to", req.Destination.String()).
		Msg("requesting route from OSRM")

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

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "READ_FAILED",
			Message:  "failed to read routing provider response",
			Err:      errors.Join(routing.ErrProviderUnavailable, err),
		}
	}

	var parsed routeResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, parsed, decodeErr)
	}
	if decodeErr != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "DECODE_FAILED",
			Message:  "routing provider returned malformed JSON",
			Err:      errors.Join(routing.ErrProviderUnavailable, decodeErr),
		}
	}
	if parsed.Code != codeOk {
		return nil, handleErrorResponse(resp.StatusCode, parsed, nil)
	}

	route, err := toRoute(parsed)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("points", len(route.Coordinates)).
		Float64("distance_m", route.DistanceMeters).
		Msg("received route from OSRM")

	return route, nil
}

// routeURL builds {base}/route/v1/driving/{lng},{lat};{lng},{lat}.
func (c *Client) routeURL(from, to geo.Coordinate) string {
	return fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=full&geometries=geojson",
		c.baseURL,
		formatDegrees(from.Lng), formatDegrees(from.Lat),
		formatDegrees(to.Lng), formatDegrees(to.Lat),
	)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// handleErrorResponse maps OSRM status codes and response codes to routing errors.
func handleErrorResponse(statusCode int, parsed routeResponse, decodeErr error) error {
	if decodeErr == nil {
		switch parsed.Code {
		case codeNoRoute, codeNoSegment:
			return &routing.Error{
				Provider: ProviderName,
				Code:     "NO_ROUTE",
				Message:  "no route found between the given points",
				Err:      routing.ErrNoRouteFound,
			}
		case codeOk:
			// Ok with a non-200 status falls through to the status mapping.
		default:
			if parsed.Code != "" {
				return &routing.Error{
					Provider: ProviderName,
					Code:     parsed.Code,
					Message:  parsed.Message,
					Err:      routing.ErrProviderUnavailable,
				}
			}
		}
	}

	if statusCode >= http.StatusInternalServerError {
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	return &routing.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
		Err:      routing.ErrProviderUnavailable,
	}
}

// toRoute converts the first OSRM route to the domain model.
func toRoute(resp routeResponse) (*routing.Route, error) {
	if len(resp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "routing provider returned no routes",
			Err:      routing.ErrNoRouteFound,
		}
	}

	first := resp.Routes[0]
	if first.Geometry == nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "EMPTY_GEOMETRY",
			Message:  "routing provider returned a route without geometry",
			Err:      routing.ErrNoRouteFound,
		}
	}

	line, ok := first.Geometry.Coordinates.(orb.LineString)
	if !ok || len(line) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "EMPTY_GEOMETRY",
			Message:  fmt.Sprintf("unexpected route geometry %q", first.Geometry.Type),
			Err:      routing.ErrNoRouteFound,
		}
	}

	coords := make([]geo.Coordinate, 0, len(line))
	for _, p := range line {
		coords = append(coords, geo.Coordinate{Lat: p.Lat(), Lng: p.Lon()})
	}

	return &routing.Route{
		Coordinates:     coords,
		DistanceMeters:  first.Distance,
		DurationSeconds: first.Duration,
		Kind:            routing.KindUpstream,
		Instruction:     "Follow the route",
		StepName:        "Malaysia Route",
		Attribution:     Attribution,
	}, nil
}
