package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type MockLocationCache struct {
	mock.Mock
}

func (m *MockLocationCache) Get(ctx context.Context, id string) (models.Location, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(models.Location), args.Error(1)
}

func (m *MockLocationCache) Set(ctx context.Context, location models.Location, ttl time.Duration) error {
	args := m.Called(ctx, location, ttl)

	return args.Error(0)
}
