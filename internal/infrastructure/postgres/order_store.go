package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/infrastructure/postgres/dto"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const PostgresErrorCode = "23505"

const insertOrderSQL = `INSERT INTO orders (
	id, order_number, location_id, order_type, status,
	customer_name, customer_phone, customer_email, delivery_address, delivery_city, notes,
	subtotal, delivery_fee, total, source, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

const insertOrderItemSQL = `INSERT INTO order_items (
	order_id, menu_item_id, item_name, unit_price, quantity, line_total, catalog_backed
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults
}

type OrderStore struct {
	pool      *pgxpool.Pool
	writeMode string
}

func NewOrderStore(pool *pgxpool.Pool, writeMode string) *OrderStore {
	return &OrderStore{
		pool:      pool,
		writeMode: writeMode,
	}
}

// SaveOrder writes the header and its items. In two_step mode an items
// failure leaves the header in place and is reported through
// ItemsPersisted instead of an error.
func (o *OrderStore) SaveOrder(ctx context.Context, order models.Order) (models.Order, error) {
	const op = "infrastructure.OrderStore.SaveOrder"

	if o.writeMode == config.WriteModeTwoStep {
		return o.saveTwoStep(ctx, order)
	}

	err := pgx.BeginFunc(ctx, o.pool, func(tx pgx.Tx) error {
		if err := insertHeader(ctx, tx, order); err != nil {
			return err
		}

		return insertItems(ctx, tx, order)
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order.ItemsPersisted = true

	return order, nil
}

func (o *OrderStore) saveTwoStep(ctx context.Context, order models.Order) (models.Order, error) {
	const op = "infrastructure.OrderStore.saveTwoStep"

	if err := insertHeader(ctx, o.pool, order); err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertItems(ctx, o.pool, order); err != nil {
		zapLogger.Error(ctx, "order items insert failed after header was stored",
			zap.String("order_id", order.ID.String()),
			zap.Error(fmt.Errorf("%s: %w", op, err)),
		)

		order.ItemsPersisted = false
		return order, nil
	}

	order.ItemsPersisted = true

	return order, nil
}

func insertHeader(ctx context.Context, q querier, order models.Order) error {
	orderDTO := dto.OrderFromDomain(order)

	_, err := q.Exec(ctx, insertOrderSQL,
		orderDTO.ID,
		orderDTO.OrderNumber,
		orderDTO.LocationID,
		orderDTO.OrderType,
		orderDTO.Status,
		orderDTO.CustomerName,
		orderDTO.CustomerPhone,
		orderDTO.CustomerEmail,
		orderDTO.DeliveryAddress,
		orderDTO.DeliveryCity,
		orderDTO.Notes,
		orderDTO.Subtotal,
		orderDTO.DeliveryFee,
		orderDTO.Total,
		orderDTO.Source,
		orderDTO.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return repositoryErrors.ErrOrderAlreadyExists
		}

		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func insertItems(ctx context.Context, q querier, order models.Order) error {
	batch := &pgx.Batch{}
	for _, item := range order.Items {
		itemDTO := dto.OrderItemFromDomain(order.ID, item)
		batch.Queue(insertOrderItemSQL,
			itemDTO.OrderID,
			itemDTO.MenuItemID,
			itemDTO.ItemName,
			itemDTO.UnitPrice,
			itemDTO.Quantity,
			itemDTO.LineTotal,
			itemDTO.CatalogBacked,
		)
	}

	results := q.SendBatch(ctx, batch)

	for range order.Items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert order items: %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	return nil
}

func isDuplicateKey(err error) bool {
	var postgresErr *pgconn.PgError

	if errors.As(err, &postgresErr) {
		return postgresErr.Code == PostgresErrorCode
	}

	return false
}
