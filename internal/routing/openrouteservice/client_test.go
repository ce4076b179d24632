package openrouteservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/provider/resilience"
	"github.com/kitamove/kitamove/internal/routing"
)

var (
	kualaLumpur = geo.Coordinate{Lat: 3.139, Lng: 101.6869}
	penang      = geo.Coordinate{Lat: 5.4141, Lng: 100.3288}
)

const orsGeoJSON = `{"type":"FeatureCollection","features":[{"bbox":[100.3,3.1,101.7,5.4],"type":"Feature","properties":{"summary":{"distance":355210.7,"duration":14400.5}},"geometry":{"coordinates":[[101.6869,3.139],[100.3288,5.4141]],"type":"LineString"}}],"bbox":[100.3,3.1,101.7,5.4],"metadata":{"attribution":"openrouteservice.org | OpenStreetMap contributors","service":"routing"}}`

// mockHTTPClient wraps http.Client to implement HTTPDoer interface.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

type mockFailingClient struct {
	err error
}

func (m *mockFailingClient) Do(*http.Request) (*http.Response, error) {
	return nil, m.err
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})
}

func TestClient_Relay_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "mock123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/v2/directions/driving-car/geojson", r.URL.Path)

		var body directionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][2]float64{{101.6869, 3.139}, {100.3288, 5.4141}}, body.Coordinates)

		w.Header().Set("Content-Type", "application/geo+json;charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(orsGeoJSON))
	}))
	defer server.Close()

	resp, err := newTestClient(server).Relay(context.Background(), kualaLumpur, penang)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json;charset=UTF-8", resp.ContentType)
	assert.Equal(t, orsGeoJSON, string(resp.Body), "body must be relayed verbatim")
}

func TestClient_Relay_UpstreamErrorsAreVerbatim(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "route not found",
			status: http.StatusNotFound,
			body:   `{"error":{"code":2009,"message":"Route could not be found"}}`,
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"error":"Access to this API has been disallowed"}`,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":2099,"message":"Unknown internal error"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, err := newTestClient(server).Relay(context.Background(), kualaLumpur, penang)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(resp.Body))
		})
	}
}

func TestClient_Relay_DefaultClientDoesNotRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	registry := resilience.NewRegistry()
	client := NewClient(ClientConfig{
		APIKey:   "mock123",
		BaseURL:  server.URL,
		Registry: registry,
		Logger:   zerolog.Nop(),
	})

	resp, err := client.Relay(context.Background(), kualaLumpur, penang)
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
	assert.NotNil(t, registry.GetHealth(ProviderName), "openrouteservice must be registered")
}

func TestClient_Relay_ServerErrorsDoNotOpenBreaker(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream gateway"}`))
	}))
	defer server.Close()

	registry := resilience.NewRegistry()
	client := NewClient(ClientConfig{
		APIKey:   "mock123",
		BaseURL:  server.URL,
		Registry: registry,
		Logger:   zerolog.Nop(),
	})

	for i := 0; i < 10; i++ {
		resp, err := client.Relay(context.Background(), kualaLumpur, penang)
		require.NoError(t, err, "relay %d", i)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}

	assert.Equal(t, int32(10), attempts.Load())
	assert.True(t, registry.GetHealth(ProviderName).IsHealthy())
}

func TestClient_Relay_BodyOverLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("x", 65)))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxBodyBytes = 64

	_, err := client.Relay(context.Background(), kualaLumpur, penang)

	var routingErr *routing.Error
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, "READ_FAILED", routingErr.Code)
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}

func TestClient_Relay_BodyAtLimit(t *testing.T) {
	body := strings.Repeat("x", 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxBodyBytes = 64

	resp, err := client.Relay(context.Background(), kualaLumpur, penang)
	require.NoError(t, err)
	assert.Equal(t, body, string(resp.Body))
}

func TestClient_Relay_InvalidCoordinates(t *testing.T) {
	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		HTTPClient: &mockFailingClient{err: errors.New("should not be called")},
		Logger:     zerolog.Nop(),
	})

	tests := []struct {
		name     string
		from     geo.Coordinate
		to       geo.Coordinate
		wantCode string
	}{
		{"invalid origin latitude", geo.Coordinate{Lat: 91, Lng: 0}, penang, "INVALID_ORIGIN"},
		{"NaN destination", kualaLumpur, geo.Coordinate{Lat: math.NaN(), Lng: 100}, "INVALID_DESTINATION"},
		{"invalid destination longitude", kualaLumpur, geo.Coordinate{Lat: 0, Lng: 181}, "INVALID_DESTINATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Relay(context.Background(), tt.from, tt.to)

			var routingErr *routing.Error
			require.ErrorAs(t, err, &routingErr)
			assert.Equal(t, tt.wantCode, routingErr.Code)
			assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
		})
	}
}

func TestClient_Relay_NetworkError(t *testing.T) {
	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    "http://localhost:9999",
		HTTPClient: &mockFailingClient{err: errors.New("connection refused")},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Relay(context.Background(), kualaLumpur, penang)
	require.Error(t, err)
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}

func TestClient_Relay_CircuitOpen(t *testing.T) {
	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		HTTPClient: &mockFailingClient{err: resilience.ErrCircuitOpen},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Relay(context.Background(), kualaLumpur, penang)

	var routingErr *routing.Error
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, "CIRCUIT_OPEN", routingErr.Code)
}

func TestClient_Name(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "test", Logger: zerolog.Nop()})
	assert.Equal(t, "openrouteservice", client.Name())
}
