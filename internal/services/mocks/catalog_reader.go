package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
)

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) GetLocation(ctx context.Context, id string) (models.Location, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(models.Location), args.Error(1)
}

func (m *MockCatalogReader) GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	args := m.Called(ctx, ids)

	var items []models.MenuItem
	if value := args.Get(0); value != nil {
		items = value.([]models.MenuItem)
	}

	return items, args.Error(1)
}
