// Package errors provides standardized error handling for the matching engine.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidCustomerID ErrorCode = "INVALID_CUSTOMER_ID"
	ErrCodeCustomerNotFound  ErrorCode = "CUSTOMER_NOT_FOUND"

	ErrCodeSubscriptionInactive ErrorCode = "SUBSCRIPTION_INACTIVE"

	ErrCodeOpportunityNotFound ErrorCode = "OPPORTUNITY_NOT_FOUND"
	ErrCodeMatchComputeFailed  ErrorCode = "MATCH_COMPUTE_FAILED"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeWebhookSignatureInvalid ErrorCode = "WEBHOOK_SIGNATURE_INVALID"
	ErrCodeWebhookPayloadInvalid   ErrorCode = "WEBHOOK_PAYLOAD_INVALID"

	ErrCodeIngestFetchFailed      ErrorCode = "INGEST_FETCH_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidCustomerIDError flags a malformed customer identifier.
func NewInvalidCustomerIDError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCustomerID,
		Message:   "Invalid customerId",
		Details:   fmt.Sprintf("customerId: %q", raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCustomerNotFoundError creates a non-retryable lookup error.
func NewCustomerNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeCustomerNotFound,
		Message:   "Customer not found",
		Details:   fmt.Sprintf("customerId: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubscriptionInactiveError is the payment-required gating outcome. It is
// not a defect; the subscription status rides along so the caller can branch
// into the subscribe flow.
func NewSubscriptionInactiveError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubscriptionInactive,
		Message:   "Subscription required",
		Retryable: false,
		Metadata:  map[string]interface{}{"subscriptionStatus": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewOpportunityNotFoundError creates a non-retryable lookup error.
func NewOpportunityNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeOpportunityNotFound,
		Message:   "Opportunity not found",
		Details:   fmt.Sprintf("opportunityId: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchComputeFailedError wraps an unexpected failure while computing
// matches. Partial results are never returned alongside it.
func NewMatchComputeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchComputeFailed,
		Message:   "Failed to compute matches",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports a malformed request body.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable database error.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookSignatureInvalidError rejects an unauthenticated webhook call.
func NewWebhookSignatureInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookSignatureInvalid,
		Message:   "Webhook signature verification failed",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookPayloadInvalidError rejects a malformed webhook event.
func NewWebhookPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookPayloadInvalid,
		Message:   "Webhook payload invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIngestFetchFailedError wraps an upstream listings feed failure.
func NewIngestFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIngestFetchFailed,
		Message:   "Listings feed fetch failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError wraps a notification delivery failure.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}
