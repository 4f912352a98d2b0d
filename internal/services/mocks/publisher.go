package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}
