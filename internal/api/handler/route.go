package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kitamove/kitamove/internal/api/middleware"
	"github.com/kitamove/kitamove/internal/api/models"
	"github.com/kitamove/kitamove/internal/api/response"
	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/routing"
	"github.com/kitamove/kitamove/internal/routing/openrouteservice"
)

// maxRouteBodyBytes caps the POST /api/route request body.
const maxRouteBodyBytes = 64 << 10

// RouteComputer builds route envelopes (mock and malaysia modes).
type RouteComputer interface {
	Compute(ctx context.Context, req routing.RouteRequest) (*routing.Envelope, error)
}

// RouteRelayer forwards a route request to a routing engine unchanged (proxy mode).
type RouteRelayer interface {
	Relay(ctx context.Context, from, to geo.Coordinate) (*openrouteservice.RelayResponse, error)
}

// RouteHandlerConfig holds the dependencies of RouteHandler.
// Exactly one of Service and Relay is expected; Relay wins when both are set.
type RouteHandlerConfig struct {
	Service RouteComputer
	Relay   RouteRelayer
	Logger  zerolog.Logger
}

// RouteHandler handles routing endpoints.
type RouteHandler struct {
	service RouteComputer
	relay   RouteRelayer
	logger  zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(cfg RouteHandlerConfig) *RouteHandler {
	return &RouteHandler{
		service: cfg.Service,
		relay:   cfg.Relay,
		logger:  cfg.Logger,
	}
}

// ComputeRoute handles POST /api/route - driving route between two "lat,lng" points.
func (h *RouteHandler) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRouteBodyBytes)).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	if strings.TrimSpace(input.From) == "" || strings.TrimSpace(input.To) == "" {
		response.BadRequest(w, r, "from and to are required")
		return
	}

	from, err := geo.ParseLatLng(input.From)
	if err != nil {
		response.BadRequest(w, r, coordinateMessage("from", err))
		return
	}
	to, err := geo.ParseLatLng(input.To)
	if err != nil {
		response.BadRequest(w, r, coordinateMessage("to", err))
		return
	}

	log := h.logger.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("date", input.Date).
		Logger()
	log.Info().Msg("route requested")

	if h.relay != nil {
		h.relayRoute(w, r, log, from, to)
		return
	}

	envelope, err := h.service.Compute(r.Context(), routing.RouteRequest{
		Origin:      from,
		Destination: to,
		Date:        input.Date,
	})
	if err != nil {
		h.writeRouteError(w, r, log, err)
		return
	}
	log.Info().Float64("distance_m", envelope.DistanceMeters()).Msg("route computed")

	response.JSON(w, r, http.StatusOK, envelope)
}

// relayRoute passes the engine's answer through. Success bodies are relayed byte for byte;
// error bodies are wrapped as {"error": "<upstream body>"} under the upstream status.
func (h *RouteHandler) relayRoute(w http.ResponseWriter, r *http.Request, log zerolog.Logger, from, to geo.Coordinate) {
	resp, err := h.relay.Relay(r.Context(), from, to)
	if err != nil {
		h.writeRouteError(w, r, log, err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("upstream_status", resp.StatusCode).Msg("routing engine rejected request")
		response.Error(w, r, resp.StatusCode, string(resp.Body))
		return
	}

	response.Raw(w, r, http.StatusOK, resp.ContentType, resp.Body)
}

func (h *RouteHandler) writeRouteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	if routing.IsClientError(err) {
		log.Info().Err(err).Msg("route request rejected")
		response.BadRequest(w, r, clientMessage(err))
		return
	}

	log.Error().Err(err).Msg("route computation failed")
	response.InternalError(w, r, models.MessageRouteFailed)
}

// clientMessage returns the message of a client-caused routing error.
func clientMessage(err error) string {
	var routingErr *routing.Error
	if errors.As(err, &routingErr) && routingErr.Message != "" {
		return routingErr.Message
	}
	return err.Error()
}

func coordinateMessage(field string, err error) string {
	return fmt.Sprintf("invalid %s coordinate: %v", field, err)
}
