package order

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/validation"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

// SubmitContact reports success once the form passes rate limiting and
// validation, whatever happens to storage afterwards.
func (h *Handler) SubmitContact(c *gin.Context) {
	if !h.allow(c, h.contactLimiter, limiterContact) {
		return
	}

	var request validation.ContactRequest
	if !h.bind(c, &request) {
		return
	}

	submission := h.contacts.Submit(c.Request.Context(), toContactSubmission(request, c.ClientIP()))

	zapLogger.Info(c.Request.Context(), "contact form received",
		zap.String("submission_id", submission.ID.String()),
		zap.String("reason", string(submission.Reason)),
	)

	c.JSON(http.StatusOK, contactResponse{
		Success: true,
		Message: "Thank you for reaching out! We'll get back to you soon.",
	})
}

func toContactSubmission(request validation.ContactRequest, clientIP string) models.ContactSubmission {
	return models.ContactSubmission{
		Name:     request.Name,
		Email:    request.Email,
		Phone:    optional(request.Phone),
		Reason:   models.ContactReason(request.Reason),
		Message:  request.Message,
		ClientIP: clientIP,
	}
}
