package validation

import "strings"

// OrderRequest is the body of POST /api/orders/create. Client subtotal and
// total fields have no counterpart here and are dropped during decoding.
type OrderRequest struct {
	LocationID      string             `json:"locationId" validate:"required,notblank,max=100"`
	OrderType       string             `json:"orderType" validate:"required,oneof=delivery pickup"`
	CustomerName    string             `json:"customerName" validate:"required,notblank,min=2,max=100"`
	CustomerPhone   string             `json:"customerPhone" validate:"required,phone"`
	CustomerEmail   string             `json:"customerEmail" validate:"omitempty,email,max=255"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"max=500"`
	DeliveryCity    string             `json:"deliveryCity" validate:"max=100"`
	Notes           string             `json:"notes" validate:"max=1000"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

type OrderItemRequest struct {
	ID          string  `json:"id" validate:"required,notblank,max=100"`
	Name        string  `json:"name" validate:"required,notblank,min=1,max=200"`
	Price       float64 `json:"price" validate:"gte=0,lte=10000"`
	Quantity    int     `json:"quantity" validate:"gte=1,lte=99"`
	Description string  `json:"description" validate:"max=500"`
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,notblank,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Reason  string `json:"reason" validate:"required,oneof=general catering feedback careers other"`
	Message string `json:"message" validate:"required,notblank,min=10,max=2000"`
}

// Normalize trims surrounding whitespace so length rules apply to the stored
// values.
func (r *OrderRequest) Normalize() {
	r.LocationID = strings.TrimSpace(r.LocationID)
	r.OrderType = strings.TrimSpace(r.OrderType)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.DeliveryAddress = strings.TrimSpace(r.DeliveryAddress)
	r.DeliveryCity = strings.TrimSpace(r.DeliveryCity)
	r.Notes = strings.TrimSpace(r.Notes)

	for i := range r.Items {
		r.Items[i].ID = strings.TrimSpace(r.Items[i].ID)
		r.Items[i].Name = strings.TrimSpace(r.Items[i].Name)
		r.Items[i].Description = strings.TrimSpace(r.Items[i].Description)
	}
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Reason = strings.TrimSpace(r.Reason)
	r.Message = strings.TrimSpace(r.Message)
}
