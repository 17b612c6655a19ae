// internal/matching/gate.go
package matching

import "ambit-engine/internal/models"

// Decision is the access gate outcome. A payment-required decision is a
// first-class result, distinct from an empty match list.
type Decision struct {
	Allowed            bool
	SubscriptionStatus models.SubscriptionStatus
}

// CheckAccess gates match computation on the customer's subscription state.
// It runs before the opportunity pool is loaded so no scoring work happens
// for inactive customers.
func CheckAccess(customer *models.CustomerProfile) Decision {
	if !customer.IsActive {
		return Decision{
			Allowed:            false,
			SubscriptionStatus: customer.SubscriptionStatus.OrInactive(),
		}
	}
	return Decision{Allowed: true, SubscriptionStatus: customer.SubscriptionStatus}
}
