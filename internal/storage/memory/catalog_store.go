package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
)

type CatalogStore struct {
	locations map[string]models.Location
	menu      map[string]models.MenuItem
	mu        sync.RWMutex
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		locations: make(map[string]models.Location),
		menu:      make(map[string]models.MenuItem),
	}
}

// NewDemoCatalogStore is seeded with a small menu for local runs.
func NewDemoCatalogStore() *CatalogStore {
	catalogStore := NewCatalogStore()
	catalogStore.fill()
	return catalogStore
}

func (catalogStore *CatalogStore) fill() {
	catalogStore.PutLocation(models.Location{
		ID:                "downtown",
		Name:              "Downtown",
		DeliveryFee:       decimal.RequireFromString("4.99"),
		DeliveryEnabled:   true,
		IsAcceptingOrders: true,
	})
	catalogStore.PutLocation(models.Location{
		ID:                "harbor",
		Name:              "Harbor Front",
		DeliveryFee:       decimal.Zero,
		DeliveryEnabled:   false,
		IsAcceptingOrders: true,
	})
	catalogStore.PutLocation(models.Location{
		ID:                "airport",
		Name:              "Airport Kiosk",
		DeliveryFee:       decimal.Zero,
		DeliveryEnabled:   false,
		IsAcceptingOrders: false,
	})

	catalogStore.PutMenuItem(models.MenuItem{ID: "margherita", Name: "Margherita Pizza", Price: decimal.RequireFromString("12.00"), Available: true})
	catalogStore.PutMenuItem(models.MenuItem{ID: "pepperoni", Name: "Pepperoni Pizza", Price: decimal.RequireFromString("14.50"), Available: true})
	catalogStore.PutMenuItem(models.MenuItem{ID: "caesar-salad", Name: "Caesar Salad", Price: decimal.RequireFromString("9.25"), Available: true})
	catalogStore.PutMenuItem(models.MenuItem{ID: "tiramisu", Name: "Tiramisu", Price: decimal.RequireFromString("7.00"), Available: false})
}

func (catalogStore *CatalogStore) PutLocation(location models.Location) {
	catalogStore.mu.Lock()
	defer catalogStore.mu.Unlock()

	catalogStore.locations[location.ID] = location
}

func (catalogStore *CatalogStore) PutMenuItem(item models.MenuItem) {
	catalogStore.mu.Lock()
	defer catalogStore.mu.Unlock()

	catalogStore.menu[item.ID] = item
}

func (catalogStore *CatalogStore) GetLocation(ctx context.Context, id string) (models.Location, error) {
	const op = "storage.CatalogStore.GetLocation"

	select {
	case <-ctx.Done():
		return models.Location{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	catalogStore.mu.RLock()
	location, found := catalogStore.locations[id]
	catalogStore.mu.RUnlock()

	if !found {
		return models.Location{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrLocationNotFound)
	}

	return location, nil
}

func (catalogStore *CatalogStore) GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	const op = "storage.CatalogStore.GetMenuItems"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	catalogStore.mu.RLock()
	defer catalogStore.mu.RUnlock()

	out := make([]models.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, found := catalogStore.menu[id]; found {
			out = append(out, item)
		}
	}

	return out, nil
}
