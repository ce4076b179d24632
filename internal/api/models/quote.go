package models

// QuoteRequest is the body of POST /api/quote.
type QuoteRequest struct {
	DistanceKm *float64 `json:"distanceKm"`
}

// LorryOption is one priced vehicle class.
type LorryOption struct {
	Size     string `json:"size"`
	Type     string `json:"type"`
	Capacity string `json:"capacity"`
	// EstimatedCost is ringgit with two decimals, e.g. "649.38".
	EstimatedCost    string `json:"estimatedCost"`
	EstimatedCostSen int64  `json:"estimatedCostSen"`
}

// QuoteResponse lists the recommended lorry and the alternatives for a trip.
type QuoteResponse struct {
	DistanceKm       float64       `json:"distanceKm"`
	Currency         string        `json:"currency"`
	RecommendedLorry LorryOption   `json:"recommendedLorry"`
	Alternatives     []LorryOption `json:"alternatives"`
}
