// Package handler provides HTTP handlers for the KitaMOVE API.
package handler

import (
	"net/http"
	"time"

	"github.com/kitamove/kitamove/internal/api/models"
	"github.com/kitamove/kitamove/internal/api/response"
	"github.com/kitamove/kitamove/internal/provider/resilience"
)

// OpsConfig holds the dependencies of OpsHandler.
type OpsConfig struct {
	Version   string
	BuildTime string
	// RouteMode is reported by the status endpoint.
	RouteMode string
	// Registry lists the upstream routing engines (optional).
	Registry *resilience.Registry
	// UpstreamRequired marks the upstreams as having no fallback,
	// so an open breaker makes the service unready.
	UpstreamRequired bool
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /ops/ready - readiness check.
// The service is unready only when a required upstream has an open breaker.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.overallStatus()

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	if status == models.HealthStatusFail {
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /ops/status - route mode and upstream breaker state.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    h.overallStatus(),
		Time:      models.Timestamp(time.Now()),
		RouteMode: h.cfg.RouteMode,
		Providers: []models.ProviderStatus{},
	}

	if h.cfg.Registry != nil {
		for _, p := range h.cfg.Registry.GetAllHealth() {
			status.Providers = append(status.Providers, providerStatus(p))
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) overallStatus() models.HealthStatus {
	if h.cfg.Registry == nil {
		return models.HealthStatusOK
	}

	status := models.HealthStatusOK
	for _, p := range h.cfg.Registry.GetAllHealth() {
		switch {
		case p.IsUnhealthy() && h.cfg.UpstreamRequired:
			return models.HealthStatusFail
		case !p.IsHealthy():
			status = models.HealthStatusDegraded
		}
	}
	return status
}

func providerStatus(p *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:     p.Name,
		Status:       providerHealthStatus(p),
		CircuitState: p.CircuitState.String(),
		Requests:     p.Counts.Requests,
		Failures:     p.Counts.TotalFailures,
	}
	if p.LastSuccessAt != nil {
		ts := models.Timestamp(*p.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if p.LastFailureAt != nil {
		ts := models.Timestamp(*p.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	if p.LastError != "" {
		msg := p.LastError
		ps.Message = &msg
	}
	return ps
}

func providerHealthStatus(p *resilience.ProviderHealth) models.HealthStatus {
	switch p.Status() {
	case resilience.StatusUnhealthy:
		return models.HealthStatusFail
	case resilience.StatusDegraded:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
