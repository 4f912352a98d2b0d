package order

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const locationFetchTimeout = 5 * time.Second

type LocationCache interface {
	Get(ctx context.Context, id string) (models.Location, error)
	Set(ctx context.Context, location models.Location, ttl time.Duration) error
}

// CachedCatalog keeps location records in a cache for ttl. Menu prices are
// always read from the underlying catalog.
type CachedCatalog struct {
	next  CatalogReader
	cache LocationCache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedCatalog(next CatalogReader, cache LocationCache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func (c *CachedCatalog) GetLocation(ctx context.Context, id string) (models.Location, error) {
	location, err := c.cache.Get(ctx, id)
	if err == nil {
		return location, nil
	}

	if !errors.Is(err, repositoryErrors.ErrCacheMiss) {
		zapLogger.Warn(ctx, "location cache read failed", zap.String("location_id", id), zap.Error(err))
	}

	// The shared lookup outlives any single caller; each caller still gives
	// up on its own context.
	results := c.group.DoChan(id, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), locationFetchTimeout)
		defer cancel()

		location, err := c.next.GetLocation(fetchCtx, id)
		if err != nil {
			return models.Location{}, err
		}

		if err := c.cache.Set(fetchCtx, location, c.ttl); err != nil {
			zapLogger.Warn(fetchCtx, "location cache write failed", zap.String("location_id", id), zap.Error(err))
		}

		return location, nil
	})

	select {
	case <-ctx.Done():
		return models.Location{}, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return models.Location{}, result.Err
		}

		return result.Val.(models.Location), nil
	}
}

func (c *CachedCatalog) GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	return c.next.GetMenuItems(ctx, ids)
}
