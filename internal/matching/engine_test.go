// internal/matching/engine_test.go
package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeCustomerStore struct {
	customer *models.CustomerProfile
	err      error
}

func (f *fakeCustomerStore) GetCustomerByID(ctx context.Context, id int64) (*models.CustomerProfile, error) {
	return f.customer, f.err
}

type fakeOpportunityStore struct {
	pool   []models.Opportunity
	err    error
	called bool
}

func (f *fakeOpportunityStore) ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	f.called = true
	return f.pool, f.err
}

func newTestEngine(customers CustomerStore, opportunities OpportunityStore) *Engine {
	return NewEngine(DefaultConfig(), customers, opportunities, logger.NewNoOpLogger())
}

// ==========================
// Pipeline outcomes
// ==========================

func TestEngine_Matches_Success(t *testing.T) {
	customers := &fakeCustomerStore{customer: pavingCustomer()}
	opportunities := &fakeOpportunityStore{pool: []models.Opportunity{pavingOpp(1), weakOpp(2)}}

	result, err := newTestEngine(customers, opportunities).Matches(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.CustomerID)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 89, result.Matches[0].Score)
}

func TestEngine_Matches_CustomerNotFound(t *testing.T) {
	customers := &fakeCustomerStore{customer: nil}
	opportunities := &fakeOpportunityStore{}

	result, err := newTestEngine(customers, opportunities).Matches(context.Background(), 99)

	assert.Nil(t, result)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCustomerNotFound))
	assert.False(t, opportunities.called)
}

func TestEngine_Matches_GateShortCircuitsBeforePoolLoad(t *testing.T) {
	customer := pavingCustomer()
	customer.IsActive = false
	customer.SubscriptionStatus = models.SubscriptionPastDue

	customers := &fakeCustomerStore{customer: customer}
	opportunities := &fakeOpportunityStore{pool: []models.Opportunity{pavingOpp(1)}}

	result, err := newTestEngine(customers, opportunities).Matches(context.Background(), 1)

	assert.Nil(t, result)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSubscriptionInactive))
	assert.False(t, opportunities.called, "gated request must not load the pool")

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, "past_due", stdErr.Metadata["subscriptionStatus"])
}

func TestEngine_Matches_IncompleteProfileIsSuccess(t *testing.T) {
	// An incomplete profile is not an error: the pool is still loaded and the
	// result is simply empty of qualifying matches.
	customers := &fakeCustomerStore{customer: &models.CustomerProfile{ID: 3, IsActive: true, SubscriptionStatus: models.SubscriptionActive}}
	opportunities := &fakeOpportunityStore{pool: []models.Opportunity{pavingOpp(1)}}

	result, err := newTestEngine(customers, opportunities).Matches(context.Background(), 3)

	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.True(t, opportunities.called)
}

func TestEngine_Matches_StoreErrors(t *testing.T) {
	t.Run("customer lookup fails", func(t *testing.T) {
		customers := &fakeCustomerStore{err: errors.New("connection refused")}
		_, err := newTestEngine(customers, &fakeOpportunityStore{}).Matches(context.Background(), 1)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeQueryExecutionFailed))
	})

	t.Run("pool load fails", func(t *testing.T) {
		customers := &fakeCustomerStore{customer: pavingCustomer()}
		opportunities := &fakeOpportunityStore{err: errors.New("connection refused")}
		_, err := newTestEngine(customers, opportunities).Matches(context.Background(), 1)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeQueryExecutionFailed))
	})
}
