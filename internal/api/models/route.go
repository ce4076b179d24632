package models

// RouteRequest is the body of POST /api/route.
type RouteRequest struct {
	// From and To are "lat,lng" strings.
	From string `json:"from"`
	To   string `json:"to"`
	// Date is the moving date (YYYY-MM-DD). Echoed, not used for routing.
	Date string `json:"date,omitempty"`
}
