package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
)

func TestCatalogStore(t *testing.T) {
	store := NewDemoCatalogStore()
	ctx := context.Background()

	location, err := store.GetLocation(ctx, "downtown")
	require.NoError(t, err)
	assert.True(t, location.DeliveryEnabled)
	assert.True(t, decimal.RequireFromString("4.99").Equal(location.DeliveryFee))

	_, err = store.GetLocation(ctx, "atlantis")
	assert.ErrorIs(t, err, repositoryErrors.ErrLocationNotFound)

	items, err := store.GetMenuItems(ctx, []string{"margherita", "ghost", "tiramisu"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "margherita", items[0].ID)
	assert.False(t, items[1].Available)
}

func TestCatalogStoreCanceledContext(t *testing.T) {
	store := NewDemoCatalogStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetLocation(ctx, "downtown")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.GetMenuItems(ctx, []string{"margherita"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrderStore(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	order := models.Order{
		ID:    uuid.New(),
		Total: decimal.NewFromInt(20),
		Items: []models.OrderItem{{ItemName: "Chef Special", Quantity: 2, LineTotal: decimal.NewFromInt(20)}},
	}

	saved, err := store.SaveOrder(ctx, order)
	require.NoError(t, err)
	assert.True(t, saved.ItemsPersisted)

	_, err = store.SaveOrder(ctx, order)
	assert.ErrorIs(t, err, repositoryErrors.ErrOrderAlreadyExists)

	found, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)
	assert.Equal(t, 1, store.Len())

	_, err = store.GetOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, repositoryErrors.ErrOrderNotFound)
}

func TestContactStore(t *testing.T) {
	store := NewContactStore()

	require.NoError(t, store.SaveSubmission(context.Background(), models.ContactSubmission{ID: uuid.New()}))
	assert.Len(t, store.Submissions(), 1)
}
