// internal/models/customer.go
package models

// SubscriptionStatus is the closed set of billing states a customer can be in.
// It mirrors the states reported by the billing provider's webhooks.
type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionPaused     SubscriptionStatus = "paused"
	SubscriptionInactive   SubscriptionStatus = "inactive"
)

// Active reports whether the status unlocks match access.
// Only active and trialing customers see matches.
func (s SubscriptionStatus) Active() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// OrInactive returns the status, defaulting to "inactive" when unset.
func (s SubscriptionStatus) OrInactive() SubscriptionStatus {
	if s == "" {
		return SubscriptionInactive
	}
	return s
}

// CustomerProfile is the buyer-side record describing the trade, service
// area and interest keywords used to compute fit. Profile text fields are
// free text; KeywordsCsv and NaicsCsv are comma separated.
type CustomerProfile struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`

	Industry    string `json:"industry"`
	Services    string `json:"services"`
	Location    string `json:"location"`
	KeywordsCsv string `json:"keywords"`
	NaicsCsv    string `json:"naics"`

	IsActive             bool               `json:"isActive"`
	SubscriptionStatus   SubscriptionStatus `json:"subscriptionStatus"`
	StripeCustomerID     string             `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string             `json:"stripeSubscriptionId,omitempty"`
}
