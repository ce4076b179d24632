package routing

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// stepTypeDestination is the ORS instruction type used for the single synthesized step.
const stepTypeDestination = 11

// Envelope is the GeoJSON FeatureCollection returned to the booking client.
// Its shape mirrors the OpenRouteService directions response the client was built against.
type Envelope struct {
	Type     string       `json:"type"`
	Features []Feature    `json:"features"`
	BBox     geojson.BBox `json:"bbox"`
	Metadata Metadata     `json:"metadata"`
}

// Feature is the single route feature of an Envelope.
type Feature struct {
	BBox       geojson.BBox      `json:"bbox"`
	Type       string            `json:"type"`
	Properties FeatureProperties `json:"properties"`
	Geometry   *geojson.Geometry `json:"geometry"`
}

// FeatureProperties carries distance and duration for the route.
type FeatureProperties struct {
	Segments  []Segment `json:"segments"`
	Summary   Summary   `json:"summary"`
	WayPoints []int     `json:"way_points"`
	RouteKind RouteKind `json:"route_kind"`
}

// Segment holds distance in meters and duration in seconds.
type Segment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Steps    []Step  `json:"steps"`
}

// Step is one instruction within a segment.
type Step struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Type        int     `json:"type"`
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
	WayPoints   []int   `json:"way_points"`
}

// Summary totals the route.
type Summary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Metadata describes where the route came from and what was asked for.
type Metadata struct {
	Attribution string `json:"attribution"`
	Service     string `json:"service"`
	Timestamp   int64  `json:"timestamp"`
	Query       Query  `json:"query"`
}

// Query echoes the request in [lng, lat] order.
type Query struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Profile     string       `json:"profile"`
	Format      string       `json:"format"`
	Date        string       `json:"date,omitempty"`
}

// NewEnvelope wraps a route in the response envelope.
// The bounding box is computed over every coordinate of the route.
func NewEnvelope(route *Route, req RouteRequest, now time.Time) *Envelope {
	line := make(orb.LineString, 0, len(route.Coordinates))
	for _, c := range route.Coordinates {
		line = append(line, orb.Point{c.Lng, c.Lat})
	}
	bbox := geojson.NewBBox(line.Bound())
	wayPoints := []int{0, max(len(line)-1, 0)}

	return &Envelope{
		Type: "FeatureCollection",
		Features: []Feature{
			{
				BBox: bbox,
				Type: "Feature",
				Properties: FeatureProperties{
					Segments: []Segment{
						{
							Distance: route.DistanceMeters,
							Duration: route.DurationSeconds,
							Steps: []Step{
								{
									Distance:    route.DistanceMeters,
									Duration:    route.DurationSeconds,
									Type:        stepTypeDestination,
									Instruction: route.Instruction,
									Name:        route.StepName,
									WayPoints:   wayPoints,
								},
							},
						},
					},
					Summary: Summary{
						Distance: route.DistanceMeters,
						Duration: route.DurationSeconds,
					},
					WayPoints: wayPoints,
					RouteKind: route.Kind,
				},
				Geometry: geojson.NewGeometry(line),
			},
		},
		BBox: bbox,
		Metadata: Metadata{
			Attribution: route.Attribution,
			Service:     "routing",
			Timestamp:   now.UnixMilli(),
			Query: Query{
				Coordinates: [][2]float64{req.Origin.LngLat(), req.Destination.LngLat()},
				Profile:     Profile,
				Format:      "json",
				Date:        req.Date,
			},
		},
	}
}

// DistanceMeters returns properties.segments[0].distance, the value the client reads.
func (e *Envelope) DistanceMeters() float64 {
	if len(e.Features) == 0 || len(e.Features[0].Properties.Segments) == 0 {
		return 0
	}
	return e.Features[0].Properties.Segments[0].Distance
}
