package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitamove/kitamove/internal/api/handler"
	"github.com/kitamove/kitamove/internal/api/models"
)

func postQuote(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.NewQuoteHandler(nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Quote(w, req)
	return w
}

func TestQuote_Success(t *testing.T) {
	w := postQuote(t, `{"distanceKm": 294.1}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 294.1, resp.DistanceKm)
	assert.Equal(t, "MYR", resp.Currency)
	assert.Equal(t, "1-Ton Lorry", resp.RecommendedLorry.Type)
	assert.Equal(t, "medium", resp.RecommendedLorry.Size)
	assert.Equal(t, "649.38", resp.RecommendedLorry.EstimatedCost)
	assert.Equal(t, int64(64938), resp.RecommendedLorry.EstimatedCostSen)

	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, "3-Ton Lorry", resp.Alternatives[0].Type)
	assert.Equal(t, "Small Van", resp.Alternatives[1].Type)
}

func TestQuote_ZeroDistance(t *testing.T) {
	w := postQuote(t, `{"distanceKm": 0}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "120.00", resp.RecommendedLorry.EstimatedCost)
}

func TestQuote_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed JSON", `{"distanceKm":`, "invalid JSON body"},
		{"missing distance", `{}`, "distanceKm is required"},
		{"negative distance", `{"distanceKm": -3}`, "distanceKm must be a non-negative number"},
		{"string distance", `{"distanceKm": "far"}`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postQuote(t, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w).Error)
		})
	}
}
