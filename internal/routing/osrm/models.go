package osrm

import "github.com/paulmach/orb/geojson"

// routeResponse is the body of GET /route/v1/{profile}/{coordinates}.
type routeResponse struct {
	Code      string     `json:"code"`
	Message   string     `json:"message,omitempty"`
	Routes    []route    `json:"routes"`
	Waypoints []waypoint `json:"waypoints,omitempty"`
}

// route is one route; geometry is requested as GeoJSON.
type route struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Distance float64           `json:"distance"` // meters
	Duration float64           `json:"duration"` // seconds
	Weight   float64           `json:"weight"`
}

// waypoint is an input coordinate snapped to the road network.
type waypoint struct {
	Name     string     `json:"name"`
	Location [2]float64 `json:"location"`
	Distance float64    `json:"distance"`
}

// OSRM response codes.
const (
	codeOk        = "Ok"
	codeNoRoute   = "NoRoute"
	codeNoSegment = "NoSegment"
)
