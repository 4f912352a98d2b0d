package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

// Details is everything checkout needs besides the lines.
type Details struct {
	LocationID      string
	OrderType       string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	DeliveryAddress string
	DeliveryCity    string
	Notes           string
}

// OrderRequest is the body sent to the order endpoint.
type OrderRequest struct {
	LocationID      string        `json:"locationId"`
	OrderType       string        `json:"orderType"`
	CustomerName    string        `json:"customerName"`
	CustomerPhone   string        `json:"customerPhone"`
	CustomerEmail   string        `json:"customerEmail,omitempty"`
	DeliveryAddress string        `json:"deliveryAddress,omitempty"`
	DeliveryCity    string        `json:"deliveryCity,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Items           []RequestItem `json:"items"`
}

type RequestItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description,omitempty"`
}

// Confirmation is the server's view of the placed order.
type Confirmation struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Submitter interface {
	SubmitOrder(ctx context.Context, request OrderRequest) (Confirmation, error)
}

// Checkout submits the cart and clears it only after the server accepted the
// order. Any failure leaves the cart as it was so the visitor can retry.
func Checkout(ctx context.Context, store *Store, submitter Submitter, details Details) (Confirmation, error) {
	const op = "cart.Checkout"

	lines := store.Items()
	if len(lines) == 0 {
		return Confirmation{}, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	confirmation, err := submitter.SubmitOrder(ctx, buildRequest(details, lines))
	if err != nil {
		return Confirmation{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = store.ClearCart(ctx); err != nil {
		zapLogger.Warn(ctx, "order placed but cart could not be cleared",
			zap.String("order_number", confirmation.OrderNumber),
			zap.Error(err),
		)
	}

	return confirmation, nil
}

func buildRequest(details Details, lines []Line) OrderRequest {
	items := make([]RequestItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, RequestItem{
			ID:          line.ItemID,
			Name:        line.Name,
			Price:       line.UnitPrice.InexactFloat64(),
			Quantity:    line.Quantity,
			Description: line.Description,
		})
	}

	return OrderRequest{
		LocationID:      details.LocationID,
		OrderType:       details.OrderType,
		CustomerName:    details.CustomerName,
		CustomerPhone:   details.CustomerPhone,
		CustomerEmail:   details.CustomerEmail,
		DeliveryAddress: details.DeliveryAddress,
		DeliveryCity:    details.DeliveryCity,
		Notes:           details.Notes,
		Items:           items,
	}
}
