// internal/api/matches.go
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "ambit-engine/internal/common/errors"
)

// handleMatches serves GET /engine/matches/:customerId. The id must be a
// positive integer; everything else is a 400 before any store is touched.
func (s *Server) handleMatches(c *gin.Context) {
	raw := c.Param("customerId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.respondError(c, apperrors.NewInvalidCustomerIDError(raw))
		return
	}

	result, err := s.engine.Matches(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondError translates an application error into the JSON envelope and
// logs the internal detail that stays out of the response body.
func (s *Server) respondError(c *gin.Context, err error) {
	stdErr := apperrors.AsStandardError(err)
	status, body := apperrors.ToHTTP(stdErr)

	fields := map[string]interface{}{
		"requestId": c.GetString(requestIDKey),
		"path":      c.Request.URL.Path,
		"code":      string(stdErr.Code),
		"status":    status,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request rejected", fields)
	}

	c.JSON(status, body)
}
