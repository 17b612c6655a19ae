// internal/api/server.go
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/models"
)

// MatchService computes ranked matches for one customer.
type MatchService interface {
	Matches(ctx context.Context, customerID int64) (*models.MatchResult, error)
}

// CustomerStore is the customer persistence boundary used by the handlers.
type CustomerStore interface {
	GetCustomerByID(ctx context.Context, id int64) (*models.CustomerProfile, error)
	CreateCustomer(ctx context.Context, c *models.CustomerProfile) (int64, error)
	UpdateProfile(ctx context.Context, id int64, industry, services, location, keywords, naics string) error
	UpdateSubscription(ctx context.Context, id int64, stripeCustomerID, stripeSubscriptionID string, status models.SubscriptionStatus) error
	UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionID string, status models.SubscriptionStatus) error
	ListCustomers(ctx context.Context) ([]models.CustomerProfile, error)
}

// OpportunityStore is the opportunity persistence boundary used by the handlers.
type OpportunityStore interface {
	ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error)
	GetOpportunityByID(ctx context.Context, id int64) (*models.Opportunity, error)
	InsertOpportunity(ctx context.Context, o *models.Opportunity) (int64, error)
}

// PoolInvalidator drops the cached opportunity snapshot after a write.
type PoolInvalidator interface {
	Invalidate(ctx context.Context)
}

// SupportNotifier forwards support-contact submissions.
type SupportNotifier interface {
	SendSupportEmail(ctx context.Context, fromName, replyTo, subject, body string) error
}

// Server wires the HTTP surface to the engine and stores.
type Server struct {
	engine        MatchService
	customers     CustomerStore
	opportunities OpportunityStore
	invalidator   PoolInvalidator
	notifier      SupportNotifier
	webhookSecret string
	logger        logger.Logger
}

func NewServer(engine MatchService, customers CustomerStore, opportunities OpportunityStore, invalidator PoolInvalidator, notifier SupportNotifier, webhookSecret string, log logger.Logger) *Server {
	return &Server{
		engine:        engine,
		customers:     customers,
		opportunities: opportunities,
		invalidator:   invalidator,
		notifier:      notifier,
		webhookSecret: webhookSecret,
		logger:        log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Router builds the gin engine with middleware and all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger), RequestMetrics(), CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine := r.Group("/engine")
	{
		engine.GET("/matches/:customerId", s.handleMatches)

		engine.POST("/customers", s.handleCreateCustomer)
		engine.GET("/customers", s.handleListCustomers)
		engine.GET("/customers/:customerId", s.handleGetCustomer)
		engine.PUT("/customers/:customerId/profile", s.handleUpdateProfile)

		engine.GET("/opportunities", s.handleListOpportunities)
		engine.GET("/opportunities/:opportunityId", s.handleGetOpportunity)
		engine.POST("/opportunities", s.handleCreateOpportunity)

		engine.POST("/billing/webhook", s.handleBillingWebhook)
		engine.POST("/support-contact", s.handleSupportContact)
	}

	return r
}
