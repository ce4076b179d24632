package routing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/telemetry"
)

const tracerName = "github.com/kitamove/kitamove/internal/routing"

// DefaultOutsideAreaMessage is returned when an endpoint falls outside the configured bounds.
const DefaultOutsideAreaMessage = "coordinates are outside of the service area"

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Upstream is the real routing engine (optional).
	// When nil every route comes from Fallback.
	Upstream Provider

	// Fallback produces a route when Upstream is absent or fails (required).
	Fallback Provider

	// Bounds restricts endpoints to these boxes (optional).
	// A point is accepted if it lies in any box.
	Bounds []geo.BoundingBox

	// OutsideAreaMessage is the error message for out-of-bounds endpoints.
	OutsideAreaMessage string

	// Delay is a fixed pause before responding, emulating upstream latency.
	Delay time.Duration

	// UpstreamTimeout bounds the upstream call (default: 5 seconds).
	UpstreamTimeout time.Duration

	// Metrics records upstream and fallback counts (optional).
	Metrics *telemetry.RoutingMetrics

	// Logger for service operations.
	Logger zerolog.Logger

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Service computes route envelopes, degrading to the fallback provider on upstream failure.
type Service struct {
	upstream        Provider
	fallback        Provider
	bounds          []geo.BoundingBox
	outsideMessage  string
	delay           time.Duration
	upstreamTimeout time.Duration
	metrics         *telemetry.RoutingMetrics
	logger          zerolog.Logger
	now             func() time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	upstreamTimeout := cfg.UpstreamTimeout
	if upstreamTimeout == 0 {
		upstreamTimeout = 5 * time.Second
	}

	outsideMessage := cfg.OutsideAreaMessage
	if outsideMessage == "" {
		outsideMessage = DefaultOutsideAreaMessage
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		upstream:        cfg.Upstream,
		fallback:        cfg.Fallback,
		bounds:          cfg.Bounds,
		outsideMessage:  outsideMessage,
		delay:           cfg.Delay,
		upstreamTimeout: upstreamTimeout,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		now:             now,
	}
}

// Compute returns the route envelope for req.
// Upstream failures never reach the caller; only invalid input and fallback failures do.
func (s *Service) Compute(ctx context.Context, req RouteRequest) (*Envelope, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	route, err := s.route(ctx, req)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRoute(ctx, string(route.Kind))
	s.logger.Debug().
		Str("route_kind", string(route.Kind)).
		Int("points", len(route.Coordinates)).
		Float64("distance_m", route.DistanceMeters).
		Msg("route computed")

	return NewEnvelope(route, req, s.now()), nil
}

// validate checks ranges first, then the configured bounding boxes.
func (s *Service) validate(req RouteRequest) error {
	if err := req.Origin.Validate(); err != nil {
		return &Error{
			Provider: s.fallback.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      err,
		}
	}
	if err := req.Destination.Validate(); err != nil {
		return &Error{
			Provider: s.fallback.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      err,
		}
	}

	if len(s.bounds) == 0 {
		return nil
	}
	if !geo.InAny(req.Origin, s.bounds) || !geo.InAny(req.Destination, s.bounds) {
		s.logger.Info().
			Str("from", req.Origin.String()).
			Str("to", req.Destination.String()).
			Msg("rejecting route outside service area")
		return &Error{
			Provider: s.fallback.Name(),
			Code:     "OUTSIDE_SERVICE_AREA",
			Message:  s.outsideMessage,
			Err:      ErrOutsideServiceArea,
		}
	}
	return nil
}

// wait applies the configured artificial delay, honoring cancellation.
func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// route tries the upstream provider and falls back on any error.
func (s *Service) route(ctx context.Context, req RouteRequest) (*Route, error) {
	if s.upstream != nil {
		route, err := s.fetchUpstream(ctx, req)
		if err == nil {
			return route, nil
		}
		// A cancelled client gets nothing either way.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Warn().Err(err).
			Str("upstream", s.upstream.Name()).
			Str("fallback", s.fallback.Name()).
			Msg("upstream routing failed, falling back")
		s.metrics.RecordFallback(ctx, s.upstream.Name(), s.fallback.Name())
	}

	return s.fallback.GetRoute(ctx, req)
}

func (s *Service) fetchUpstream(ctx context.Context, req RouteRequest) (*Route, error) {
	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "routing.upstream",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("routing.provider", s.upstream.Name())),
	)
	defer span.End()

	upstreamCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	start := time.Now()
	route, err := s.upstream.GetRoute(upstreamCtx, req)
	s.metrics.RecordUpstream(ctx, s.upstream.Name(), time.Since(start), err)
	if err == nil && len(route.Coordinates) == 0 {
		err = &Error{
			Provider: s.upstream.Name(),
			Code:     "EMPTY_GEOMETRY",
			Message:  "upstream returned a route without geometry",
			Err:      ErrNoRouteFound,
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream routing failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("routing.points", len(route.Coordinates)))

	route.Coordinates = pinEndpoints(route.Coordinates, req.Origin, req.Destination)
	return route, nil
}

// pinEndpoints makes the polyline start at origin and end at destination.
// Upstream engines snap endpoints to the nearest road; the snapped points are kept as interior points.
func pinEndpoints(coords []geo.Coordinate, origin, destination geo.Coordinate) []geo.Coordinate {
	out := make([]geo.Coordinate, 0, len(coords)+2)
	if coords[0] != origin {
		out = append(out, origin)
	}
	out = append(out, coords...)
	if out[len(out)-1] != destination {
		out = append(out, destination)
	}
	return out
}

// IsClientError reports whether err was caused by invalid request input.
func IsClientError(err error) bool {
	var routingErr *Error
	if errors.As(err, &routingErr) {
		return routingErr.IsClientError()
	}
	return errors.Is(err, geo.ErrInvalidCoordinate) || errors.Is(err, ErrOutsideServiceArea)
}
