package breaker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

type CatalogReader interface {
	GetLocation(ctx context.Context, id string) (models.Location, error)
	GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error)
}

// Catalog fails fast while the catalog store keeps erroring. A missing
// location is a normal answer and does not count against the breaker.
type Catalog struct {
	next            CatalogReader
	locationBreaker *gobreaker.CircuitBreaker[models.Location]
	menuBreaker     *gobreaker.CircuitBreaker[[]models.MenuItem]
}

func NewCatalog(next CatalogReader, cfg config.CircuitBreakerConfig) *Catalog {
	return &Catalog{
		next:            next,
		locationBreaker: gobreaker.NewCircuitBreaker[models.Location](settings("catalog.locations", cfg)),
		menuBreaker:     gobreaker.NewCircuitBreaker[[]models.MenuItem](settings("catalog.menu", cfg)),
	}
}

func settings(name string, cfg config.CircuitBreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, repositoryErrors.ErrLocationNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zapLogger.Warn(context.Background(), "circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
}

func (c *Catalog) GetLocation(ctx context.Context, id string) (models.Location, error) {
	location, err := c.locationBreaker.Execute(func() (models.Location, error) {
		return c.next.GetLocation(ctx, id)
	})
	if err != nil {
		return models.Location{}, fmt.Errorf("circuit breaker: %w", err)
	}

	return location, nil
}

func (c *Catalog) GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	items, err := c.menuBreaker.Execute(func() ([]models.MenuItem, error) {
		return c.next.GetMenuItems(ctx, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("circuit breaker: %w", err)
	}

	return items, nil
}
