package geo

// BoundingBox is an inclusive latitude/longitude rectangle.
type BoundingBox struct {
	Name   string
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether c lies inside the box, edges included.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Approximate extents of the two halves of Malaysia.
var (
	MalaysiaPeninsular = BoundingBox{Name: "peninsular", MinLat: 1.2, MaxLat: 6.7, MinLng: 99.6, MaxLng: 104.5}
	MalaysiaEast       = BoundingBox{Name: "east", MinLat: 0.85, MaxLat: 7.4, MinLng: 109.4, MaxLng: 119.3}
)

// MalaysiaBounds returns the boxes a point must fall into to count as inside Malaysia.
func MalaysiaBounds() []BoundingBox {
	return []BoundingBox{MalaysiaPeninsular, MalaysiaEast}
}

// InAny reports whether c lies in at least one of boxes.
func InAny(c Coordinate, boxes []BoundingBox) bool {
	for _, b := range boxes {
		if b.Contains(c) {
			return true
		}
	}
	return false
}

// InMalaysia reports whether c lies in either the peninsular or the east box.
func InMalaysia(c Coordinate) bool {
	return InAny(c, MalaysiaBounds())
}

// Region identifies which half of Malaysia a point belongs to.
type Region int

const (
	RegionOutside Region = iota
	RegionPeninsular
	RegionEast
)

func (r Region) String() string {
	switch r {
	case RegionPeninsular:
		return "peninsular"
	case RegionEast:
		return "east"
	default:
		return "outside"
	}
}

// Classify returns the region containing c.
func Classify(c Coordinate) Region {
	switch {
	case MalaysiaPeninsular.Contains(c):
		return RegionPeninsular
	case MalaysiaEast.Contains(c):
		return RegionEast
	default:
		return RegionOutside
	}
}

// City is a named reference location used to label synthesized routes.
type City struct {
	Name string
	Coordinate
}

var cities = [...]City{
	{Name: "Kuala Lumpur", Coordinate: Coordinate{Lat: 3.139, Lng: 101.6869}},
	{Name: "Penang", Coordinate: Coordinate{Lat: 5.4141, Lng: 100.3288}},
	{Name: "Johor Bahru", Coordinate: Coordinate{Lat: 1.4927, Lng: 103.7414}},
	{Name: "Ipoh", Coordinate: Coordinate{Lat: 4.5975, Lng: 101.0901}},
	{Name: "Malacca", Coordinate: Coordinate{Lat: 2.1896, Lng: 102.2501}},
	{Name: "Kota Kinabalu", Coordinate: Coordinate{Lat: 5.9804, Lng: 116.0735}},
	{Name: "Kuching", Coordinate: Coordinate{Lat: 1.5533, Lng: 110.3593}},
	{Name: "Shah Alam", Coordinate: Coordinate{Lat: 3.0738, Lng: 101.5183}},
	{Name: "Petaling Jaya", Coordinate: Coordinate{Lat: 3.1073, Lng: 101.6067}},
	{Name: "Kuantan", Coordinate: Coordinate{Lat: 3.8077, Lng: 103.3260}},
}

// NearestCity returns the reference city closest to c.
func NearestCity(c Coordinate) City {
	nearest := cities[0]
	best := HaversineKm(c, nearest.Coordinate)
	for _, city := range cities[1:] {
		if d := HaversineKm(c, city.Coordinate); d < best {
			best = d
			nearest = city
		}
	}
	return nearest
}
