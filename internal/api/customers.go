// internal/api/customers.go
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/models"
)

// Profile fields are all optional strings, so binding tags cannot catch
// anything. Schema validation rejects wrong types and oversized values.
const profileSchema = `{
	"type": "object",
	"properties": {
		"industry": {"type": "string", "maxLength": 500},
		"services": {"type": "string", "maxLength": 2000},
		"location": {"type": "string", "maxLength": 500},
		"keywords": {"type": "string", "maxLength": 2000},
		"naics":    {"type": "string", "maxLength": 500}
	},
	"additionalProperties": false
}`

type createCustomerRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
	Industry     string `json:"industry"`
	Services     string `json:"services"`
	Location     string `json:"location"`
	Keywords     string `json:"keywords"`
	Naics        string `json:"naics"`
}

type updateProfileRequest struct {
	Industry string `json:"industry"`
	Services string `json:"services"`
	Location string `json:"location"`
	Keywords string `json:"keywords"`
	Naics    string `json:"naics"`
}

func (s *Server) handleCreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	customer := &models.CustomerProfile{
		Name:               req.Name,
		ContactEmail:       req.ContactEmail,
		Industry:           req.Industry,
		Services:           req.Services,
		Location:           req.Location,
		KeywordsCsv:        req.Keywords,
		NaicsCsv:           req.Naics,
		// New signups stay gated until the billing webhook activates them.
		IsActive:           false,
		SubscriptionStatus: models.SubscriptionInactive,
	}

	id, err := s.customers.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	customer.ID = id

	c.JSON(http.StatusCreated, customer)
}

func (s *Server) handleListCustomers(c *gin.Context) {
	customers, err := s.customers.ListCustomers(c.Request.Context())
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (s *Server) handleGetCustomer(c *gin.Context) {
	id, ok := s.customerID(c)
	if !ok {
		return
	}

	customer, err := s.customers.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	if customer == nil {
		s.respondError(c, apperrors.NewCustomerNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	id, ok := s.customerID(c)
	if !ok {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		s.respondError(c, apperrors.NewValidationFailedError("unable to read request body"))
		return
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(profileSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		s.respondError(c, apperrors.NewValidationFailedError("request body is not valid JSON"))
		return
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		s.respondError(c, apperrors.NewValidationFailedError(strings.Join(problems, "; ")))
		return
	}

	var req updateProfileRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.respondError(c, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	// Confirm the customer exists so a typo'd id is a 404, not a silent no-op.
	customer, err := s.customers.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	if customer == nil {
		s.respondError(c, apperrors.NewCustomerNotFoundError(id))
		return
	}

	if err := s.customers.UpdateProfile(c.Request.Context(), id, req.Industry, req.Services, req.Location, req.Keywords, req.Naics); err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) customerID(c *gin.Context) (int64, bool) {
	raw := c.Param("customerId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.respondError(c, apperrors.NewInvalidCustomerIDError(raw))
		return 0, false
	}
	return id, true
}
