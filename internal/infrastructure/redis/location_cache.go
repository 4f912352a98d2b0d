package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
)

const locationKeyPrefix = "location:cache:"

type locationView struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DeliveryFee       string `json:"delivery_fee"`
	DeliveryEnabled   bool   `json:"delivery_enabled"`
	IsAcceptingOrders bool   `json:"is_accepting_orders"`
}

func (v locationView) toDomain() (models.Location, error) {
	fee, err := decimal.NewFromString(v.DeliveryFee)
	if err != nil {
		return models.Location{}, err
	}

	return models.Location{
		ID:                v.ID,
		Name:              v.Name,
		DeliveryFee:       fee,
		DeliveryEnabled:   v.DeliveryEnabled,
		IsAcceptingOrders: v.IsAcceptingOrders,
	}, nil
}

func fromDomain(location models.Location) locationView {
	return locationView{
		ID:                location.ID,
		Name:              location.Name,
		DeliveryFee:       location.DeliveryFee.StringFixed(2),
		DeliveryEnabled:   location.DeliveryEnabled,
		IsAcceptingOrders: location.IsAcceptingOrders,
	}
}

type LocationCache struct {
	client goredis.Cmdable
}

func NewLocationCache(client goredis.Cmdable) *LocationCache {
	return &LocationCache{
		client: client,
	}
}

func (c *LocationCache) Get(ctx context.Context, id string) (models.Location, error) {
	const op = "LocationCache.Get"

	data, err := c.client.Get(ctx, locationKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return models.Location{}, repositoryErrors.ErrCacheMiss
		}

		return models.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	var view locationView
	if err := json.Unmarshal(data, &view); err != nil {
		return models.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	location, err := view.toDomain()
	if err != nil {
		return models.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	return location, nil
}

func (c *LocationCache) Set(ctx context.Context, location models.Location, ttl time.Duration) error {
	const op = "LocationCache.Set"

	data, err := json.Marshal(fromDomain(location))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.client.Set(ctx, locationKeyPrefix+location.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
