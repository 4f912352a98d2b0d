package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type MockWriter struct {
	mock.Mock
}

// SaveOrder also accepts a func(context.Context, models.Order) (models.Order, error)
// as the first return value to echo the input back.
func (m *MockWriter) SaveOrder(ctx context.Context, order models.Order) (models.Order, error) {
	args := m.Called(ctx, order)

	if fn, ok := args.Get(0).(func(context.Context, models.Order) (models.Order, error)); ok {
		return fn(ctx, order)
	}

	return args.Get(0).(models.Order), args.Error(1)
}
