package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type Order struct {
	mock.Mock
}

func (m *Order) CreateOrder(ctx context.Context, request models.PlaceOrder) (models.Order, error) {
	args := m.Called(ctx, request)

	return args.Get(0).(models.Order), args.Error(1)
}

type Contact struct {
	mock.Mock
}

func (m *Contact) Submit(ctx context.Context, submission models.ContactSubmission) models.ContactSubmission {
	args := m.Called(ctx, submission)

	return args.Get(0).(models.ContactSubmission)
}
