package openrouteservice

// directionsRequest is the ORS directions API request body.
type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// errorResponse is the error body ORS sends with 4xx/5xx statuses.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
