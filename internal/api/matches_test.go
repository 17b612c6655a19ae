// internal/api/matches_test.go
package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/models"
)

func TestMatches_InvalidCustomerID(t *testing.T) {
	h := newHarness(t)

	for _, raw := range []string{"abc", "0", "-5", "1.5"} {
		w := h.do(t, http.MethodGet, "/engine/matches/"+raw, nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", raw)
	}
}

func TestMatches_CustomerNotFound(t *testing.T) {
	h := newHarness(t)
	h.engine.err = apperrors.NewCustomerNotFoundError(99)

	w := h.do(t, http.MethodGet, "/engine/matches/99", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Customer not found", decodeBody(t, w)["message"])
}

func TestMatches_PaymentRequired(t *testing.T) {
	h := newHarness(t)
	h.engine.err = apperrors.NewSubscriptionInactiveError("past_due")

	w := h.do(t, http.MethodGet, "/engine/matches/1", nil, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Subscription required", body["message"])
	assert.Equal(t, "past_due", body["subscriptionStatus"])
}

func TestMatches_Success(t *testing.T) {
	h := newHarness(t)
	h.engine.result = &models.MatchResult{
		CustomerID: 1,
		Matches: []models.ScoredMatch{
			{
				ID:      7,
				Title:   "Asphalt paving project",
				Score:   89,
				Reasons: []string{"NAICS exact match (237310) +60"},
			},
		},
	}

	w := h.do(t, http.MethodGet, "/engine/matches/1", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["customerId"])
	matches := body["matches"].([]interface{})
	require.Len(t, matches, 1)
	first := matches[0].(map[string]interface{})
	assert.Equal(t, float64(89), first["score"])
}

func TestMatches_InternalError(t *testing.T) {
	h := newHarness(t)
	h.engine.err = apperrors.NewQueryExecutionFailedError(errors.New("connection refused"))

	w := h.do(t, http.MethodGet, "/engine/matches/1", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal detail stays out of the body.
	assert.Equal(t, "Database query failed", decodeBody(t, w)["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}
