package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocation     = errors.New("invalid location")
	ErrLocationClosed      = errors.New("location is not accepting orders")
	ErrDeliveryUnavailable = errors.New("delivery is not available at this location")
	ErrItemUnavailable     = errors.New("item unavailable")
	ErrItemPriceRejected   = errors.New("item price rejected")
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrOrderAlreadyExists  = errors.New("order already exists")
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrValidationFailed    = errors.New("validation failed")
)

// ItemUnavailableError names the catalog item that rejected the whole order.
type ItemUnavailableError struct {
	ItemName string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("%q is currently unavailable", e.ItemName)
}

func (e *ItemUnavailableError) Unwrap() error {
	return ErrItemUnavailable
}

// ItemPriceRejectedError names a non-catalog item whose client price was refused.
type ItemPriceRejectedError struct {
	ItemName string
	Reason   string
}

func (e *ItemPriceRejectedError) Error() string {
	return fmt.Sprintf("%q cannot be ordered: %s", e.ItemName, e.Reason)
}

func (e *ItemPriceRejectedError) Unwrap() error {
	return ErrItemPriceRejected
}
