package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/validation"
)

const (
	codeRateLimited         = "rate_limited"
	codeValidationFailed    = "validation_failed"
	codeInvalidLocation     = "invalid_location"
	codeLocationClosed      = "location_closed"
	codeDeliveryUnavailable = "delivery_unavailable"
	codeItemUnavailable     = "item_unavailable"
	codeItemPriceRejected   = "item_price_rejected"
	codeOrderCreationFailed = "order_creation_failed"
	codeInternal            = "internal_error"
)

type errorResponse struct {
	Success    bool                    `json:"success"`
	Error      string                  `json:"error"`
	Message    string                  `json:"message"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
	RetryAfter int                     `json:"retryAfter,omitempty"`
}

type createOrderResponse struct {
	Success bool      `json:"success"`
	Order   orderView `json:"order"`
}

type orderView struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Subtotal    float64   `json:"subtotal"`
	DeliveryFee float64   `json:"deliveryFee"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toOrderView(order models.Order) orderView {
	return orderView{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,
		Subtotal:    order.Subtotal.InexactFloat64(),
		DeliveryFee: order.DeliveryFee.InexactFloat64(),
		Total:       order.Total.InexactFloat64(),
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
}

func toPlaceOrder(request validation.OrderRequest) models.PlaceOrder {
	items := make([]models.RequestedItem, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, models.RequestedItem{
			ItemID:      item.ID,
			Name:        item.Name,
			ClientPrice: decimal.NewFromFloat(item.Price),
			Quantity:    item.Quantity,
			Description: item.Description,
		})
	}

	return models.PlaceOrder{
		LocationID: request.LocationID,
		Type:       models.OrderType(request.OrderType),
		Customer: models.Customer{
			Name:            strings.TrimSpace(request.CustomerName),
			Phone:           strings.TrimSpace(request.CustomerPhone),
			Email:           optional(request.CustomerEmail),
			DeliveryAddress: optional(request.DeliveryAddress),
			DeliveryCity:    optional(request.DeliveryCity),
			Notes:           optional(request.Notes),
		},
		Items: items,
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	return &value
}
