package order

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/validation"
	serviceErrors "github.com/nastyazhadan/restaurant-order/shared/errors/service"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	startTime := time.Now()
	ctx := c.Request.Context()

	if !h.allow(c, h.orderLimiter, limiterOrder) {
		h.metrics.OrdersRejected.WithLabelValues(codeRateLimited).Inc()
		return
	}

	var request validation.OrderRequest
	if !h.bind(c, &request) {
		h.metrics.OrdersRejected.WithLabelValues(codeValidationFailed).Inc()
		return
	}

	order, err := h.orders.CreateOrder(ctx, toPlaceOrder(request))
	if err != nil {
		status, response := errorFromService(err)
		h.metrics.OrdersRejected.WithLabelValues(response.Error).Inc()

		if status >= http.StatusInternalServerError {
			zapLogger.Error(ctx, "failed to create order",
				zap.String("location_id", request.LocationID),
				zap.Duration("duration", time.Since(startTime)),
				zap.Error(err),
			)
		} else {
			zapLogger.Info(ctx, "order rejected",
				zap.String("location_id", request.LocationID),
				zap.String("reason", response.Error),
				zap.Error(err),
			)
		}

		c.JSON(status, response)
		return
	}

	h.metrics.OrdersCreated.WithLabelValues(string(order.Type)).Inc()

	zapLogger.Info(ctx, "order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Duration("duration", time.Since(startTime)),
	)

	c.JSON(http.StatusOK, createOrderResponse{
		Success: true,
		Order:   toOrderView(order),
	})
}

// Capabilities answers GET on the create endpoint with a static description.
func (h *Handler) Capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoint":    "/api/orders/create",
		"method":      http.MethodPost,
		"description": "Creates an order. Prices and totals are computed by the server.",
		"orderTypes":  []models.OrderType{models.OrderTypeDelivery, models.OrderTypePickup},
		"items": gin.H{
			"maxLines":    50,
			"minQuantity": 1,
			"maxQuantity": 99,
		},
		"rateLimit": gin.H{
			"maxRequests":   h.orderLimiter.Policy().MaxRequests,
			"windowSeconds": int(h.orderLimiter.Policy().Window / time.Second),
		},
	})
}

func errorFromService(err error) (int, errorResponse) {
	response := errorResponse{Success: false}

	switch {
	case errors.Is(err, serviceErrors.ErrInvalidLocation):
		response.Error = codeInvalidLocation
		response.Message = "The selected location could not be found."

	case errors.Is(err, serviceErrors.ErrLocationClosed):
		response.Error = codeLocationClosed
		response.Message = "This location is not accepting online orders right now."

	case errors.Is(err, serviceErrors.ErrDeliveryUnavailable):
		response.Error = codeDeliveryUnavailable
		response.Message = "Delivery is not available from this location. Please choose pickup."

	case errors.Is(err, serviceErrors.ErrItemUnavailable):
		response.Error = codeItemUnavailable
		response.Message = "An item in your cart is currently unavailable."

		var unavailable *serviceErrors.ItemUnavailableError
		if errors.As(err, &unavailable) {
			response.Message = unavailable.ItemName + " is currently unavailable. Please remove it from your cart."
		}

	case errors.Is(err, serviceErrors.ErrItemPriceRejected):
		response.Error = codeItemPriceRejected
		response.Message = "An item in your cart cannot be ordered online."

		var rejected *serviceErrors.ItemPriceRejectedError
		if errors.As(err, &rejected) {
			response.Message = rejected.ItemName + " cannot be ordered online: " + rejected.Reason + "."
		}

	case errors.Is(err, serviceErrors.ErrOrderCreationFailed),
		errors.Is(err, serviceErrors.ErrOrderAlreadyExists):
		response.Error = codeOrderCreationFailed
		response.Message = "We couldn't place your order. Please try again."

		return http.StatusInternalServerError, response

	default:
		response.Error = codeInternal
		response.Message = "An unexpected error occurred. Please try again."

		return http.StatusInternalServerError, response
	}

	return http.StatusBadRequest, response
}
