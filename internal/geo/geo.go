// Package geo provides coordinate parsing, great-circle distance and the
// Malaysia reference geography used by the route generators.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate indicates a coordinate string could not be parsed or is out of range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// String formats the coordinate in the "lat,lng" form accepted by ParseLatLng.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// LngLat returns the coordinate in GeoJSON [lng, lat] order.
func (c Coordinate) LngLat() [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}

// ParseLatLng parses a "lat,lng" string.
// Both parts must be finite numbers inside the valid latitude/longitude ranges.
func ParseLatLng(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q is not in lat,lng form", ErrInvalidCoordinate, s)
	}

	lat, err := parseDegrees(parts[0])
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude %q: %v", ErrInvalidCoordinate, parts[0], err)
	}
	lng, err := parseDegrees(parts[1])
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude %q: %v", ErrInvalidCoordinate, parts[1], err)
	}

	c := Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

func parseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// Validate checks the coordinate is within the valid latitude/longitude ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(a, b Coordinate) float64 {
	lat1 := deg2rad(a.Lat)
	lat2 := deg2rad(b.Lat)
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PathLengthKm sums the haversine length of consecutive segments.
func PathLengthKm(points []Coordinate) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
