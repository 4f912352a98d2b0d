package models

import "github.com/shopspring/decimal"

type Location struct {
	ID                string
	Name              string
	DeliveryFee       decimal.Decimal
	DeliveryEnabled   bool
	IsAcceptingOrders bool
}

type MenuItem struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Available bool
}
