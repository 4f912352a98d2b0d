package dto

import (
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

// Money columns are selected as ::text and parsed here.
type Location struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	DeliveryFee       string `db:"delivery_fee"`
	DeliveryEnabled   bool   `db:"delivery_enabled"`
	IsAcceptingOrders bool   `db:"is_accepting_orders"`
}

func (l Location) ToDomain() (models.Location, error) {
	fee, err := decimal.NewFromString(l.DeliveryFee)
	if err != nil {
		return models.Location{}, err
	}

	return models.Location{
		ID:                l.ID,
		Name:              l.Name,
		DeliveryFee:       fee,
		DeliveryEnabled:   l.DeliveryEnabled,
		IsAcceptingOrders: l.IsAcceptingOrders,
	}, nil
}

type MenuItem struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Price     string `db:"price"`
	Available bool   `db:"available"`
}

func (m MenuItem) ToDomain() (models.MenuItem, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return models.MenuItem{}, err
	}

	return models.MenuItem{
		ID:        m.ID,
		Name:      m.Name,
		Price:     price,
		Available: m.Available,
	}, nil
}
