package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is the persisted header plus its priced lines.
type Order struct {
	ID              uuid.UUID
	OrderNumber     string
	LocationID      string
	Type            OrderType
	Status          OrderStatus
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	DeliveryAddress *string
	DeliveryCity    *string
	Notes           *string
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
	Source          string
	CreatedAt       time.Time

	Items []OrderItem

	// ItemsPersisted is false only when a two-step write stored the header
	// but failed on the lines.
	ItemsPersisted bool
}

// OrderItem is a line whose price has been resolved server-side.
type OrderItem struct {
	MenuItemID    *string
	ItemName      string
	UnitPrice     decimal.Decimal
	Quantity      int
	LineTotal     decimal.Decimal
	CatalogBacked bool
}

// RequestedItem is a line exactly as the client claimed it.
type RequestedItem struct {
	ItemID      string
	Name        string
	ClientPrice decimal.Decimal
	Quantity    int
	Description string
}

// Customer groups the contact fields copied onto the order header.
type Customer struct {
	Name            string
	Phone           string
	Email           *string
	DeliveryAddress *string
	DeliveryCity    *string
	Notes           *string
}

// PlaceOrder is a validated order request ready for pricing.
type PlaceOrder struct {
	LocationID string
	Type       OrderType
	Customer   Customer
	Items      []RequestedItem
}
