// internal/common/errors/http.go
package errors

import "net/http"

// HTTPStatus maps an error code to the response status. 402 carries the
// payment-required gating outcome; everything unrecognized is a 500 so a
// computation defect never leaks a partial result as success.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidCustomerID, ErrCodeValidationFailed, ErrCodeWebhookPayloadInvalid:
		return http.StatusBadRequest
	case ErrCodeWebhookSignatureInvalid:
		return http.StatusUnauthorized
	case ErrCodeSubscriptionInactive:
		return http.StatusPaymentRequired
	case ErrCodeCustomerNotFound, ErrCodeOpportunityNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HTTPBody is the JSON error envelope returned to callers.
type HTTPBody struct {
	Message            string `json:"message"`
	SubscriptionStatus string `json:"subscriptionStatus,omitempty"`
}

// ToHTTP converts any error into a status code and response body. Internal
// detail stays out of the body; callers log it separately.
func ToHTTP(err error) (int, HTTPBody) {
	stdErr := AsStandardError(err)
	body := HTTPBody{Message: stdErr.Message}
	if stdErr.Code == ErrCodeSubscriptionInactive {
		if status, ok := stdErr.Metadata["subscriptionStatus"].(string); ok {
			body.SubscriptionStatus = status
		}
	}
	return HTTPStatus(stdErr.Code), body
}
