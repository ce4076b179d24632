// Package routing computes driving routes for the lorry booking flow, either
// from an upstream routing engine or from local mock generators.
package routing

import (
	"context"
	"errors"

	"github.com/kitamove/kitamove/internal/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrOutsideServiceArea indicates an endpoint lies outside the configured bounding boxes.
	ErrOutsideServiceArea = errors.New("coordinates outside service area")
)

// Provider produces a single driving route between two points.
type Provider interface {
	// GetRoute computes a route from req.Origin to req.Destination.
	GetRoute(ctx context.Context, req RouteRequest) (*Route, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Profile is the routing profile echoed in response metadata.
const Profile = "driving-car"

// RouteRequest is the input for a route computation.
type RouteRequest struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
	// Date is the requested moving date. Logged and echoed, never used for routing.
	Date string
}

// RouteKind describes how a route's geometry was produced.
type RouteKind string

const (
	// KindUpstream is geometry returned by a real routing engine.
	KindUpstream RouteKind = "upstream"
	// KindStraightLine is a jittered straight line between the endpoints.
	KindStraightLine RouteKind = "straight-line"
	// KindRoadSnapped follows a reference highway between the endpoints.
	KindRoadSnapped RouteKind = "road-snapped"
	// KindDirectNoRoad joins endpoints in different regions with no road in between.
	KindDirectNoRoad RouteKind = "direct-fallback-no-road"
)

// Route is a computed route. Coordinates start at the origin and end at the destination.
type Route struct {
	Coordinates     []geo.Coordinate
	DistanceMeters  float64
	DurationSeconds float64
	Kind            RouteKind
	// Instruction and StepName describe the single synthesized step.
	Instruction string
	StepName    string
	// Attribution names the source of the route in response metadata.
	Attribution string
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsClientError reports whether the error was caused by the request itself.
func (e *Error) IsClientError() bool {
	return errors.Is(e.Err, ErrOutsideServiceArea) || errors.Is(e.Err, geo.ErrInvalidCoordinate)
}

// synthesizedDuration is the mock travel time: an assumed average of 1 km per minute.
func synthesizedDuration(distanceKm float64) float64 {
	return distanceKm * 60
}
