package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/infrastructure/postgres/dto"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
)

type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{
		pool: pool,
	}
}

func (c *CatalogStore) GetLocation(ctx context.Context, id string) (models.Location, error) {
	const op = "infrastructure.CatalogStore.GetLocation"

	rows, err := c.pool.Query(ctx,
		`SELECT id, name, delivery_fee::text AS delivery_fee, delivery_enabled, is_accepting_orders
		 FROM locations
		 WHERE id = $1
		 LIMIT 1`,
		id,
	)
	if err != nil {
		return models.Location{}, fmt.Errorf("%s: query: %w", op, err)
	}

	locationDTO, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.Location])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Location{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrLocationNotFound)
		}

		return models.Location{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	location, err := locationDTO.ToDomain()
	if err != nil {
		return models.Location{}, fmt.Errorf("%s: decode: %w", op, err)
	}

	return location, nil
}

func (c *CatalogStore) GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	const op = "infrastructure.CatalogStore.GetMenuItems"

	if len(ids) == 0 {
		return []models.MenuItem{}, nil
	}

	rows, err := c.pool.Query(ctx,
		`SELECT id, name, price::text AS price, available
		 FROM menu_items
		 WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	itemsDTO, err := pgx.CollectRows(rows, pgx.RowToStructByName[dto.MenuItem])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	out := make([]models.MenuItem, 0, len(itemsDTO))
	for _, itemDTO := range itemsDTO {
		item, err := itemDTO.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", op, itemDTO.ID, err)
		}
		out = append(out, item)
	}

	return out, nil
}
