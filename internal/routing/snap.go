package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/kitamove/kitamove/internal/geo"
)

// RoadSnapProviderName identifies the highway-snapping mock provider.
const RoadSnapProviderName = "malaysia-road-snap"

// PlanKind is the outcome of the region decision for a pair of endpoints.
type PlanKind int

const (
	// PlanSameRegionPeninsular routes along a peninsular expressway.
	PlanSameRegionPeninsular PlanKind = iota + 1
	// PlanSameRegionEast routes along the Pan Borneo Highway.
	PlanSameRegionEast
	// PlanCrossRegion has no road connection; no waypoints are emitted.
	PlanCrossRegion
)

func (k PlanKind) String() string {
	switch k {
	case PlanSameRegionPeninsular:
		return "same-region-peninsular"
	case PlanSameRegionEast:
		return "same-region-east"
	case PlanCrossRegion:
		return "cross-region"
	default:
		return "unknown"
	}
}

// RoutePlan is the highway chosen for a pair of endpoints.
// Highway is only meaningful when Kind is not PlanCrossRegion.
type RoutePlan struct {
	Kind    PlanKind
	Highway geo.Highway
}

// PlanRoute decides which reference highway joins from and to.
// Endpoints in different regions, or outside both, yield PlanCrossRegion.
func PlanRoute(from, to geo.Coordinate) RoutePlan {
	fromRegion, toRegion := geo.Classify(from), geo.Classify(to)

	switch {
	case fromRegion == geo.RegionPeninsular && toRegion == geo.RegionPeninsular:
		highway := geo.EastCoastExpressway
		if math.Abs(from.Lat-to.Lat) > math.Abs(from.Lng-to.Lng) {
			highway = geo.NorthSouthExpressway
		}
		return RoutePlan{Kind: PlanSameRegionPeninsular, Highway: highway}
	case fromRegion == geo.RegionEast && toRegion == geo.RegionEast:
		return RoutePlan{Kind: PlanSameRegionEast, Highway: geo.PanBorneoHighway}
	default:
		return RoutePlan{Kind: PlanCrossRegion}
	}
}

// Waypoints returns the highway waypoints between the ones nearest each endpoint.
func (p RoutePlan) Waypoints(from, to geo.Coordinate) []geo.Coordinate {
	if p.Kind == PlanCrossRegion {
		return nil
	}
	road := p.Highway.Waypoints()
	return geo.WaypointsBetween(road,
		geo.NearestWaypointIndex(from, road),
		geo.NearestWaypointIndex(to, road),
	)
}

// RoadSnapProvider approximates a road route by following hand-curated highway waypoints.
type RoadSnapProvider struct{}

// NewRoadSnapProvider creates a road-snapping provider.
func NewRoadSnapProvider() *RoadSnapProvider {
	return &RoadSnapProvider{}
}

// Name returns the provider name.
func (p *RoadSnapProvider) Name() string {
	return RoadSnapProviderName
}

// GetRoute returns origin, the snapped highway waypoints, then destination.
func (p *RoadSnapProvider) GetRoute(_ context.Context, req RouteRequest) (*Route, error) {
	from, to := req.Origin, req.Destination
	plan := PlanRoute(from, to)
	waypoints := plan.Waypoints(from, to)

	coords := make([]geo.Coordinate, 0, len(waypoints)+2)
	coords = append(coords, from)
	coords = append(coords, waypoints...)
	coords = append(coords, to)

	km := geo.PathLengthKm(coords)

	kind := KindRoadSnapped
	if plan.Kind == PlanCrossRegion {
		kind = KindDirectNoRoad
	}

	return &Route{
		Coordinates:     coords,
		DistanceMeters:  km * 1000,
		DurationSeconds: synthesizedDuration(km),
		Kind:            kind,
		Instruction:     fmt.Sprintf("Travel from %s to %s", geo.NearestCity(from).Name, geo.NearestCity(to).Name),
		StepName:        "Malaysia Route",
		Attribution:     "Malaysia Enhanced Route Generator",
	}, nil
}
