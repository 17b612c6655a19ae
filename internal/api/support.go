// internal/api/support.go
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ambit-engine/internal/common/errors"
)

type supportContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// handleSupportContact forwards a contact-form submission to the support
// mailbox. Delivery failures surface as 500 so the frontend can tell the
// user to retry instead of silently dropping the message.
func (s *Server) handleSupportContact(c *gin.Context) {
	var req supportContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Support request"
	}
	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)

	if err := s.notifier.SendSupportEmail(c.Request.Context(), req.Name, req.Email, subject, body); err != nil {
		s.respondError(c, apperrors.NewNotificationSendFailedError(err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"sent": true})
}
