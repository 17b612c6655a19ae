// internal/matching/gate_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ambit-engine/internal/models"
)

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name           string
		isActive       bool
		status         models.SubscriptionStatus
		wantAllowed    bool
		wantStatusBack models.SubscriptionStatus
	}{
		{
			name:           "active subscription",
			isActive:       true,
			status:         models.SubscriptionActive,
			wantAllowed:    true,
			wantStatusBack: models.SubscriptionActive,
		},
		{
			name:           "trialing customer flagged active",
			isActive:       true,
			status:         models.SubscriptionTrialing,
			wantAllowed:    true,
			wantStatusBack: models.SubscriptionTrialing,
		},
		{
			name:           "canceled subscription",
			isActive:       false,
			status:         models.SubscriptionCanceled,
			wantAllowed:    false,
			wantStatusBack: models.SubscriptionCanceled,
		},
		{
			name:           "never subscribed defaults to inactive",
			isActive:       false,
			status:         "",
			wantAllowed:    false,
			wantStatusBack: models.SubscriptionInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := &models.CustomerProfile{
				IsActive:           tt.isActive,
				SubscriptionStatus: tt.status,
			}

			d := CheckAccess(customer)

			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantStatusBack, d.SubscriptionStatus)
		})
	}
}

func TestSubscriptionStatus_Active(t *testing.T) {
	assert.True(t, models.SubscriptionActive.Active())
	assert.True(t, models.SubscriptionTrialing.Active())
	assert.False(t, models.SubscriptionPastDue.Active())
	assert.False(t, models.SubscriptionCanceled.Active())
	assert.False(t, models.SubscriptionStatus("").Active())
}
