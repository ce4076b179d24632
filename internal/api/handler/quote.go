package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kitamove/kitamove/internal/api/models"
	"github.com/kitamove/kitamove/internal/api/response"
	"github.com/kitamove/kitamove/internal/pricing"
)

// QuoteHandler prices lorry hire for a routed distance.
type QuoteHandler struct {
	quoter *pricing.Quoter
	logger zerolog.Logger
}

// NewQuoteHandler creates a new QuoteHandler. A nil quoter uses the default tariff.
func NewQuoteHandler(quoter *pricing.Quoter, logger zerolog.Logger) *QuoteHandler {
	if quoter == nil {
		quoter = pricing.NewQuoter(nil)
	}
	return &QuoteHandler{quoter: quoter, logger: logger}
}

// Quote handles POST /api/quote.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var input models.QuoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRouteBodyBytes)).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}
	if input.DistanceKm == nil {
		response.BadRequest(w, r, "distanceKm is required")
		return
	}

	quote, err := h.quoter.Quote(*input.DistanceKm)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDistance) {
			response.BadRequest(w, r, "distanceKm must be a non-negative number")
			return
		}
		h.logger.Error().Err(err).Float64("distance_km", *input.DistanceKm).Msg("quote failed")
		response.InternalError(w, r, models.MessageInternal)
		return
	}

	resp := models.QuoteResponse{
		DistanceKm:       quote.DistanceKm,
		Currency:         "MYR",
		RecommendedLorry: lorryOption(quote.Recommended),
		Alternatives:     make([]models.LorryOption, 0, len(quote.Alternatives)),
	}
	for _, alt := range quote.Alternatives {
		resp.Alternatives = append(resp.Alternatives, lorryOption(alt))
	}

	response.JSON(w, r, http.StatusOK, resp)
}

func lorryOption(o pricing.Option) models.LorryOption {
	return models.LorryOption{
		Size:             string(o.Size),
		Type:             o.Type,
		Capacity:         o.Capacity,
		EstimatedCost:    o.CostRM(),
		EstimatedCostSen: o.CostSen,
	}
}
