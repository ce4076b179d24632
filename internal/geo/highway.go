package geo

// Highway identifies one of the hand-curated highway corridors.
type Highway int

const (
	NorthSouthExpressway Highway = iota
	EastCoastExpressway
	PanBorneoHighway
)

// highwayTables holds the ordered waypoints of each corridor.
// Indexed by Highway; never handed out directly, see Waypoints.
var highwayTables = [...]struct {
	name      string
	waypoints []Coordinate
}{
	NorthSouthExpressway: {
		name: "North-South Expressway",
		waypoints: []Coordinate{
			{Lat: 6.4414, Lng: 100.1986}, // Bukit Kayu Hitam
			{Lat: 6.1184, Lng: 100.3668}, // Alor Setar
			{Lat: 5.4141, Lng: 100.3288}, // Penang
			{Lat: 4.5975, Lng: 101.0901}, // Ipoh
			{Lat: 3.139, Lng: 101.6869},  // Kuala Lumpur
			{Lat: 2.9254, Lng: 101.6559}, // Seremban
			{Lat: 2.1896, Lng: 102.2501}, // Malacca
			{Lat: 1.8555, Lng: 102.9625}, // Muar
			{Lat: 1.4927, Lng: 103.7414}, // Johor Bahru
		},
	},
	EastCoastExpressway: {
		name: "East Coast Expressway",
		waypoints: []Coordinate{
			{Lat: 3.139, Lng: 101.6869},  // Kuala Lumpur
			{Lat: 3.5126, Lng: 102.1986}, // Temerloh
			{Lat: 3.8077, Lng: 103.3260}, // Kuantan
			{Lat: 4.9647, Lng: 103.4376}, // Kuala Terengganu
			{Lat: 6.1248, Lng: 102.2436}, // Kota Bharu
		},
	},
	PanBorneoHighway: {
		name: "Pan Borneo Highway",
		waypoints: []Coordinate{
			{Lat: 1.5533, Lng: 110.3593}, // Kuching
			{Lat: 2.3089, Lng: 111.8295}, // Sibu
			{Lat: 3.1857, Lng: 113.0412}, // Bintulu
			{Lat: 4.3833, Lng: 113.9914}, // Miri
			{Lat: 4.9244, Lng: 114.9470}, // Limbang
			{Lat: 5.2756, Lng: 115.2435}, // Lawas
			{Lat: 5.9804, Lng: 116.0735}, // Kota Kinabalu
			{Lat: 5.3486, Lng: 116.4387}, // Ranau
			{Lat: 5.0329, Lng: 118.3237}, // Sandakan
			{Lat: 4.2498, Lng: 117.8871}, // Tawau
		},
	},
}

// Highways lists every known corridor.
func Highways() []Highway {
	return []Highway{NorthSouthExpressway, EastCoastExpressway, PanBorneoHighway}
}

// Valid reports whether h names a known corridor.
func (h Highway) Valid() bool {
	return h >= 0 && int(h) < len(highwayTables)
}

func (h Highway) String() string {
	if !h.Valid() {
		return "unknown highway"
	}
	return highwayTables[h].name
}

// Waypoints returns a copy of the corridor's ordered waypoints.
func (h Highway) Waypoints() []Coordinate {
	if !h.Valid() {
		return nil
	}
	src := highwayTables[h].waypoints
	out := make([]Coordinate, len(src))
	copy(out, src)
	return out
}

// NearestWaypointIndex returns the index of the waypoint closest to c,
// or -1 when waypoints is empty.
func NearestWaypointIndex(c Coordinate, waypoints []Coordinate) int {
	if len(waypoints) == 0 {
		return -1
	}
	nearest := 0
	best := HaversineKm(c, waypoints[0])
	for i := 1; i < len(waypoints); i++ {
		if d := HaversineKm(c, waypoints[i]); d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// WaypointsBetween returns waypoints[min(i,j)..max(i,j)] inclusive.
// Indices outside the slice are clamped.
func WaypointsBetween(waypoints []Coordinate, i, j int) []Coordinate {
	if len(waypoints) == 0 {
		return nil
	}
	start, end := min(i, j), max(i, j)
	start = max(start, 0)
	end = min(end, len(waypoints)-1)
	if end < start {
		return nil
	}

	out := make([]Coordinate, end-start+1)
	copy(out, waypoints[start:end+1])
	return out
}
