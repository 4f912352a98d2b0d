package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is published once an order has been written.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	LocationID  string          `json:"location_id"`
	OrderType   OrderType       `json:"order_type"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewOrderCreatedEvent(order Order) OrderCreatedEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}

	return OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		LocationID:  order.LocationID,
		OrderType:   order.Type,
		ItemCount:   count,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
	}
}
