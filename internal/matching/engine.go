// internal/matching/engine.go
package matching

import (
	"context"
	"time"

	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/common/metrics"
	"ambit-engine/internal/models"
)

// CustomerStore is the customer lookup boundary. Implementations return
// (nil, nil) when the id has no backing record.
type CustomerStore interface {
	GetCustomerByID(ctx context.Context, id int64) (*models.CustomerProfile, error)
}

// OpportunityStore supplies the full opportunity pool. The engine always
// consumes the whole pool; filtering happens in-process.
type OpportunityStore interface {
	ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error)
}

// Config carries the matching tunables.
type Config struct {
	MinScore   int
	MaxResults int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{MinScore: 60, MaxResults: 10}
}

// Engine computes match results for single customers. It holds no mutable
// state; every request loads its inputs and computes independently.
type Engine struct {
	config        Config
	customers     CustomerStore
	opportunities OpportunityStore
	logger        logger.Logger
}

func NewEngine(config Config, customers CustomerStore, opportunities OpportunityStore, log logger.Logger) *Engine {
	return &Engine{
		config:        config,
		customers:     customers,
		opportunities: opportunities,
		logger:        log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}
}

// Matches runs the full pipeline for one customer id: load profile, gate on
// subscription state, load the pool, then score/filter/dedupe/sort/truncate.
// The gate short-circuits before the pool is touched.
func (e *Engine) Matches(ctx context.Context, customerID int64) (*models.MatchResult, error) {
	start := time.Now()

	customer, err := e.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}
	if customer == nil {
		metrics.MatchRequests.WithLabelValues("not_found").Inc()
		return nil, apperrors.NewCustomerNotFoundError(customerID)
	}

	if decision := CheckAccess(customer); !decision.Allowed {
		e.logger.Info("match request gated", map[string]interface{}{
			"customerId":         customerID,
			"subscriptionStatus": string(decision.SubscriptionStatus),
		})
		metrics.MatchRequests.WithLabelValues("payment_required").Inc()
		return nil, apperrors.NewSubscriptionInactiveError(string(decision.SubscriptionStatus))
	}

	pool, err := e.opportunities.ListAllOpportunities(ctx)
	if err != nil {
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}

	matches := Rank(customer, pool, e.config.MinScore, e.config.MaxResults)

	e.logger.Info("matches computed", map[string]interface{}{
		"customerId": customerID,
		"poolSize":   len(pool),
		"matches":    len(matches),
		"durationMs": time.Since(start).Milliseconds(),
	})
	metrics.MatchRequests.WithLabelValues("ok").Inc()
	metrics.MatchComputeDuration.Observe(time.Since(start).Seconds())
	metrics.MatchResultSize.Observe(float64(len(matches)))

	return &models.MatchResult{CustomerID: customerID, Matches: matches}, nil
}
