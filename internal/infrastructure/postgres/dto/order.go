package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type Order struct {
	ID              uuid.UUID `db:"id"`
	OrderNumber     string    `db:"order_number"`
	LocationID      string    `db:"location_id"`
	OrderType       string    `db:"order_type"`
	Status          string    `db:"status"`
	CustomerName    string    `db:"customer_name"`
	CustomerPhone   string    `db:"customer_phone"`
	CustomerEmail   *string   `db:"customer_email"`
	DeliveryAddress *string   `db:"delivery_address"`
	DeliveryCity    *string   `db:"delivery_city"`
	Notes           *string   `db:"notes"`
	Subtotal        string    `db:"subtotal"`
	DeliveryFee     string    `db:"delivery_fee"`
	Total           string    `db:"total"`
	Source          string    `db:"source"`
	CreatedAt       time.Time `db:"created_at"`
}

func OrderFromDomain(order models.Order) Order {
	return Order{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		LocationID:      order.LocationID,
		OrderType:       string(order.Type),
		Status:          string(order.Status),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerEmail:   order.CustomerEmail,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryCity:    order.DeliveryCity,
		Notes:           order.Notes,
		Subtotal:        order.Subtotal.StringFixed(2),
		DeliveryFee:     order.DeliveryFee.StringFixed(2),
		Total:           order.Total.StringFixed(2),
		Source:          order.Source,
		CreatedAt:       order.CreatedAt,
	}
}

type OrderItem struct {
	OrderID       uuid.UUID `db:"order_id"`
	MenuItemID    *string   `db:"menu_item_id"`
	ItemName      string    `db:"item_name"`
	UnitPrice     string    `db:"unit_price"`
	Quantity      int       `db:"quantity"`
	LineTotal     string    `db:"line_total"`
	CatalogBacked bool      `db:"catalog_backed"`
}

func OrderItemFromDomain(orderID uuid.UUID, item models.OrderItem) OrderItem {
	return OrderItem{
		OrderID:       orderID,
		MenuItemID:    item.MenuItemID,
		ItemName:      item.ItemName,
		UnitPrice:     item.UnitPrice.StringFixed(2),
		Quantity:      item.Quantity,
		LineTotal:     item.LineTotal.StringFixed(2),
		CatalogBacked: item.CatalogBacked,
	}
}
