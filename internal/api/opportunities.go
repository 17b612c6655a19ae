// internal/api/opportunities.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ambit-engine/internal/common/errors"
	"ambit-engine/internal/models"
)

type createOpportunityRequest struct {
	Title      string `json:"title" binding:"required"`
	Location   string `json:"location"`
	Naics      string `json:"naics"`
	Keywords   string `json:"keywords"`
	Summary    string `json:"summary"`
	URL        string `json:"url"`
	Agency     string `json:"agency"`
	PostedDate string `json:"postedDate"` // RFC 3339 date, e.g. 2026-08-28
}

func (s *Server) handleListOpportunities(c *gin.Context) {
	pool, err := s.opportunities.ListAllOpportunities(c.Request.Context())
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": pool})
}

func (s *Server) handleGetOpportunity(c *gin.Context) {
	raw := c.Param("opportunityId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.respondError(c, apperrors.NewValidationFailedError("opportunityId must be a positive integer"))
		return
	}

	opp, err := s.opportunities.GetOpportunityByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	if opp == nil {
		s.respondError(c, apperrors.NewOpportunityNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, opp)
}

func (s *Server) handleCreateOpportunity(c *gin.Context) {
	var req createOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	var posted *time.Time
	if req.PostedDate != "" {
		t, err := time.Parse("2006-01-02", req.PostedDate)
		if err != nil {
			s.respondError(c, apperrors.NewValidationFailedError("postedDate must be formatted YYYY-MM-DD"))
			return
		}
		posted = &t
	}

	opp := &models.Opportunity{
		Title:      req.Title,
		Location:   req.Location,
		Naics:      req.Naics,
		Keywords:   req.Keywords,
		Summary:    req.Summary,
		URL:        req.URL,
		Agency:     req.Agency,
		PostedDate: posted,
	}

	id, err := s.opportunities.InsertOpportunity(c.Request.Context(), opp)
	if err != nil {
		s.respondError(c, apperrors.NewQueryExecutionFailedError(err))
		return
	}
	opp.ID = id

	if s.invalidator != nil {
		s.invalidator.Invalidate(c.Request.Context())
	}

	c.JSON(http.StatusCreated, opp)
}
