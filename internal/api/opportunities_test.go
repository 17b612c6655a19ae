// internal/api/opportunities_test.go
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambit-engine/internal/models"
)

func TestListOpportunities(t *testing.T) {
	h := newHarness(t)
	h.opportunities.pool = []models.Opportunity{{ID: 1, Title: "Asphalt paving"}}

	w := h.do(t, http.MethodGet, "/engine/opportunities", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["opportunities"], 1)
}

func TestGetOpportunity_NotFound(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/engine/opportunities/5", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOpportunity_InvalidatesPoolCache(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/engine/opportunities", map[string]interface{}{
		"title":      "Asphalt paving project",
		"location":   "Austin, TX",
		"naics":      "237310",
		"postedDate": "2026-08-20",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, h.opportunities.inserted, 1)
	require.NotNil(t, h.opportunities.inserted[0].PostedDate)
	assert.Equal(t, 1, h.invalidator.calls)
}

func TestCreateOpportunity_Validation(t *testing.T) {
	h := newHarness(t)

	t.Run("missing title", func(t *testing.T) {
		w := h.do(t, http.MethodPost, "/engine/opportunities", map[string]interface{}{
			"location": "Austin, TX",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad posted date", func(t *testing.T) {
		w := h.do(t, http.MethodPost, "/engine/opportunities", map[string]interface{}{
			"title":      "X",
			"postedDate": "08/20/2026",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Empty(t, h.opportunities.inserted)
	assert.Equal(t, 0, h.invalidator.calls)
}

func TestSupportContact(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/engine/support-contact", map[string]interface{}{
		"name":    "Pat",
		"email":   "pat@example.com",
		"message": "How do I update my NAICS codes?",
	}, nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Support request", h.notifier.sent[0])
}

func TestSupportContact_Validation(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/engine/support-contact", map[string]interface{}{
		"name":  "Pat",
		"email": "pat@example.com",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, h.notifier.sent)
}
