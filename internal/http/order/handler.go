package order

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/metrics"
	"github.com/nastyazhadan/restaurant-order/internal/ratelimit"
	"github.com/nastyazhadan/restaurant-order/internal/validation"
)

const (
	anonymousIdentifier = "anonymous"

	limiterOrder   = "order"
	limiterContact = "contact"
)

type Order interface {
	CreateOrder(ctx context.Context, request models.PlaceOrder) (models.Order, error)
}

type Contact interface {
	Submit(ctx context.Context, submission models.ContactSubmission) models.ContactSubmission
}

type RateLimiter interface {
	Check(ctx context.Context, identifier string) ratelimit.Result
	Policy() ratelimit.Policy
}

type Validator interface {
	ValidateStruct(value any) []validation.FieldError
}

type Handler struct {
	orders         Order
	contacts       Contact
	orderLimiter   RateLimiter
	contactLimiter RateLimiter
	validator      Validator
	metrics        *metrics.Metrics
	now            func() time.Time
}

func NewHandler(
	orders Order,
	contacts Contact,
	orderLimiter RateLimiter,
	contactLimiter RateLimiter,
	validator Validator,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		orders:         orders,
		contacts:       contacts,
		orderLimiter:   orderLimiter,
		contactLimiter: contactLimiter,
		validator:      validator,
		metrics:        m,
		now:            time.Now,
	}
}

func Register(router gin.IRouter, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/orders/create", handler.CreateOrder)
		api.GET("/orders/create", handler.Capabilities)
		api.POST("/contact", handler.SubmitContact)
	}
}

// allow applies limiter to the caller and writes the 429 response when the
// window is exhausted.
func (h *Handler) allow(c *gin.Context, limiter RateLimiter, name string) bool {
	identifier := c.ClientIP()
	if identifier == "" {
		identifier = anonymousIdentifier
	}

	policy := limiter.Policy()
	result := limiter.Check(c.Request.Context(), identifier)

	c.Header("X-RateLimit-Limit", strconv.FormatInt(policy.MaxRequests, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if result.Success {
		return true
	}

	retryAfter := result.RetryAfter(h.now(), policy.Window)
	h.metrics.RateLimitRejections.WithLabelValues(name).Inc()

	c.Header("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
		Success:    false,
		Error:      codeRateLimited,
		Message:    "Too many requests. Please wait a moment and try again.",
		RetryAfter: int(retryAfter / time.Second),
	})

	return false
}

// bind decodes the JSON body into request and runs the validator. On failure
// the 400 response has already been written.
func (h *Handler) bind(c *gin.Context, request any) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		h.rejectInvalid(c, []validation.FieldError{{Field: "body", Message: "must be a valid JSON object"}})
		return false
	}

	if fieldErrors := h.validator.ValidateStruct(request); len(fieldErrors) > 0 {
		h.rejectInvalid(c, fieldErrors)
		return false
	}

	return true
}

func (h *Handler) rejectInvalid(c *gin.Context, fieldErrors []validation.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Success: false,
		Error:   codeValidationFailed,
		Message: "Please check the highlighted fields and try again.",
		Errors:  fieldErrors,
	})
}
