package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitamove/kitamove/internal/api"
	"github.com/kitamove/kitamove/internal/api/handler"
	"github.com/kitamove/kitamove/internal/api/models"
	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/routing"
)

func newTestRouter(rateLimit int) http.Handler {
	logger := zerolog.New(io.Discard)
	svc := routing.NewService(routing.ServiceConfig{
		Fallback:           routing.NewRoadSnapProvider(),
		Bounds:             geo.MalaysiaBounds(),
		OutsideAreaMessage: models.MessageOutsideMalaysia,
		Logger:             logger,
	})
	return api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "2024-01-01T00:00:00Z",
		Logger:             logger,
		RouteMode:          "malaysia",
		Routes:             handler.RouteHandlerConfig{Service: svc},
		RateLimitPerMinute: rateLimit,
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodGet, "/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodGet, "/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodGet, "/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "malaysia", status.RouteMode)
}

func TestRouter_ComputeRoute(t *testing.T) {
	router := newTestRouter(0)

	body := `{"from":"3.139,101.6869","to":"1.4927,103.7414","date":"2025-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope routing.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "FeatureCollection", envelope.Type)
	assert.Equal(t, routing.KindRoadSnapped, envelope.Features[0].Properties.RouteKind)
	assert.Equal(t, "2025-06-01", envelope.Metadata.Query.Date)
}

func TestRouter_ComputeRoute_OutsideMalaysia(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(`{"from":"0,0","to":"3.139,101.6869"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.MessageOutsideMalaysia)
}

func TestRouter_ComputeRoute_CrossRegion(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(`{"from":"3.139,101.6869","to":"1.5533,110.3593"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope routing.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, routing.KindDirectNoRoad, envelope.Features[0].Properties.RouteKind)
	assert.Len(t, envelope.Features[0].Geometry.Coordinates, 2)
}

func TestRouter_Quote(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(`{"distanceKm": 10}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var quote models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, "138.00", quote.RecommendedLorry.EstimatedCost)
}

func TestRouter_RouteRequiresPost(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodGet, "/api/route", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodGet, "/v1/routes", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodOptions, "/api/route", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	router := newTestRouter(1)

	send := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "198.51.100.20:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/quote", `{"distanceKm": 1}`))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/api/quote", `{"distanceKm": 1}`))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/ops/health", ""))
}
