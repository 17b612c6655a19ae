// internal/api/billing.go
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/models"
)

const signatureHeader = "X-Webhook-Signature"

// webhookEnvelopeSchema is the minimal shape every billing event must have
// before we look at its type. Rejecting here keeps the per-event decoding
// from having to re-check the envelope.
const webhookEnvelopeSchema = `{
	"type": "object",
	"required": ["type", "data"],
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"data": {
			"type": "object",
			"required": ["object"],
			"properties": {
				"object": {"type": "object"}
			}
		}
	}
}`

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	ClientReferenceID string `json:"client_reference_id"`
	Customer          string `json:"customer"`
	Subscription      string `json:"subscription"`
	Metadata          struct {
		CustomerID string `json:"customerId"`
	} `json:"metadata"`
}

type subscriptionObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// handleBillingWebhook ingests billing provider events. The raw body is
// authenticated first; an unauthenticated call never reaches the decoder.
// Unhandled event types are acknowledged so the provider stops retrying them.
func (s *Server) handleBillingWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		s.respondError(c, apperrors.NewWebhookPayloadInvalidError("unreadable body"))
		return
	}

	if err := verifySignature(payload, c.GetHeader(signatureHeader), s.webhookSecret); err != nil {
		s.respondError(c, apperrors.NewWebhookSignatureInvalidError())
		return
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(webhookEnvelopeSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		s.respondError(c, apperrors.NewWebhookPayloadInvalidError(err.Error()))
		return
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		s.respondError(c, apperrors.NewWebhookPayloadInvalidError(strings.Join(details, "; ")))
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.respondError(c, apperrors.NewWebhookPayloadInvalidError(err.Error()))
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case "checkout.session.completed":
		var session checkoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			s.respondError(c, apperrors.NewWebhookPayloadInvalidError(err.Error()))
			return
		}
		customerID, err := sessionCustomerID(session)
		if err != nil {
			// Nothing to retry: the session will never gain a customer
			// reference, so acknowledge it instead of failing forever.
			s.logger.Warn("checkout session without customer reference", map[string]interface{}{
				"error": err.Error(),
			})
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if err := s.customers.UpdateSubscription(ctx, customerID, session.Customer, session.Subscription, models.SubscriptionActive); err != nil {
			s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
			return
		}
		s.logger.Info("subscription activated", map[string]interface{}{
			"customerId":     customerID,
			"subscriptionId": session.Subscription,
		})

	case "customer.subscription.updated":
		var sub subscriptionObject
		if err := json.Unmarshal(event.Data.Object, &sub); err != nil || sub.ID == "" {
			s.respondError(c, apperrors.NewWebhookPayloadInvalidError("subscription object missing id"))
			return
		}
		if err := s.customers.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionStatus(sub.Status).OrInactive()); err != nil {
			s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
			return
		}
		s.logger.Info("subscription status updated", map[string]interface{}{
			"subscriptionId": sub.ID,
			"status":         sub.Status,
		})

	case "customer.subscription.deleted":
		var sub subscriptionObject
		if err := json.Unmarshal(event.Data.Object, &sub); err != nil || sub.ID == "" {
			s.respondError(c, apperrors.NewWebhookPayloadInvalidError("subscription object missing id"))
			return
		}
		if err := s.customers.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionCanceled); err != nil {
			s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
			return
		}
		s.logger.Info("subscription canceled", map[string]interface{}{
			"subscriptionId": sub.ID,
		})

	default:
		s.logger.Debug("ignoring webhook event", map[string]interface{}{"type": event.Type})
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func sessionCustomerID(session checkoutSession) (int64, error) {
	raw := session.Metadata.CustomerID
	if raw == "" {
		raw = session.ClientReferenceID
	}
	if raw == "" {
		return 0, fmt.Errorf("checkout session carries no customer reference")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("checkout session customer reference %q is not a positive id", raw)
	}
	return id, nil
}

// verifySignature checks the "t=<unix>,v1=<hex>" header against
// HMAC-SHA256(secret, "<t>.<payload>"). Any v1 entry matching is accepted,
// which allows secret rotation with two live signatures.
func verifySignature(payload []byte, header, secret string) error {
	if secret == "" {
		return fmt.Errorf("webhook secret not configured")
	}
	if header == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, candidate := range candidates {
		decoded, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

// SignPayload produces the signature header value for a payload and secret.
// Exposed for the ingest tooling and tests that need to call the webhook.
func SignPayload(payload []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}
