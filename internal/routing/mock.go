package routing

import (
	"context"
	"math/rand"

	"github.com/kitamove/kitamove/internal/geo"
)

// StraightLineProviderName identifies the straight-line mock provider.
const StraightLineProviderName = "straight-line"

// StraightLineConfig configures the straight-line mock provider.
type StraightLineConfig struct {
	// Segments is the number of segments the line is split into (default: 10).
	Segments int

	// Jitter is the maximum latitude offset applied to interior points (default: 0.0015).
	Jitter float64

	// Rand returns a uniform value in [0, 1). Defaults to math/rand.Float64.
	Rand func() float64
}

// StraightLineProvider fabricates a route by interpolating between the endpoints.
type StraightLineProvider struct {
	segments int
	jitter   float64
	rand     func() float64
}

// NewStraightLineProvider creates a straight-line mock provider.
func NewStraightLineProvider(cfg StraightLineConfig) *StraightLineProvider {
	segments := cfg.Segments
	if segments <= 0 {
		segments = 10
	}
	jitter := cfg.Jitter
	if jitter == 0 {
		jitter = 0.0015
	}
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	return &StraightLineProvider{
		segments: segments,
		jitter:   jitter,
		rand:     rnd,
	}
}

// Name returns the provider name.
func (p *StraightLineProvider) Name() string {
	return StraightLineProviderName
}

// GetRoute returns segments+1 points along the straight line between the endpoints.
// Interior points get an independent latitude offset so the rendered line is not perfectly straight.
func (p *StraightLineProvider) GetRoute(_ context.Context, req RouteRequest) (*Route, error) {
	from, to := req.Origin, req.Destination

	coords := make([]geo.Coordinate, 0, p.segments+1)
	coords = append(coords, from)
	for i := 1; i < p.segments; i++ {
		ratio := float64(i) / float64(p.segments)
		coords = append(coords, geo.Coordinate{
			Lat: from.Lat + ratio*(to.Lat-from.Lat) + p.offset(),
			Lng: from.Lng + ratio*(to.Lng-from.Lng),
		})
	}
	coords = append(coords, to)

	km := geo.HaversineKm(from, to)

	return &Route{
		Coordinates:     coords,
		DistanceMeters:  km * 1000,
		DurationSeconds: synthesizedDuration(km),
		Kind:            KindStraightLine,
		Instruction:     "Travel from origin to destination",
		StepName:        "Route",
		Attribution:     "Mock Route Generator",
	}, nil
}

// offset returns a value uniform in [-jitter, jitter).
func (p *StraightLineProvider) offset() float64 {
	return (p.rand() - 0.5) * 2 * p.jitter
}
