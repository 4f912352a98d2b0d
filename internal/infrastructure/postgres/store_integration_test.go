//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	fakeValue "github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/migrations"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	"github.com/nastyazhadan/restaurant-order/shared/infra/db"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const (
	dbUser     = "test_user"
	dbPassword = "test_password"
	dbName     = "order_test_db"

	LongTimeout    = 2 * time.Minute
	StartupTimeout = 30 * time.Second
)

func setupPool(test *testing.T) (context.Context, *pgxpool.Pool) {
	test.Helper()
	zapLogger.SetNopLogger()

	ctx, cancel := context.WithTimeout(context.Background(), LongTimeout)
	test.Cleanup(cancel)

	container, err := pgContainer.Run(ctx,
		"postgres:17.0-alpine3.20",
		pgContainer.WithDatabase(dbName),
		pgContainer.WithUsername(dbUser),
		pgContainer.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(StartupTimeout),
		),
	)
	if err != nil {
		test.Fatalf("failed to start postgres container: %v", err)
	}
	test.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			test.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connection, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		test.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := db.SetupDB(ctx, connection, migrations.Migrations)
	if err != nil {
		test.Fatalf("failed to set up database: %v", err)
	}
	test.Cleanup(pool.Close)

	_, err = pool.Exec(ctx,
		`INSERT INTO locations (id, name, delivery_fee, delivery_enabled, is_accepting_orders)
		 VALUES ('downtown', 'Downtown', 4.00, TRUE, TRUE), ('harbor', 'Harbor', 0, FALSE, FALSE)`)
	require.NoError(test, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO menu_items (id, name, price, available)
		 VALUES ('margherita', 'Margherita', 12.00, TRUE), ('calzone', 'Calzone', 14.50, FALSE)`)
	require.NoError(test, err)

	return ctx, pool
}

func newOrder(items ...models.OrderItem) models.Order {
	id := uuid.New()
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	return models.Order{
		ID:            id,
		OrderNumber:   "ORD-20260301-" + id.String()[:6],
		LocationID:    "downtown",
		Type:          models.OrderTypePickup,
		Status:        models.OrderStatusPending,
		CustomerName:  fakeValue.Name(),
		CustomerPhone: "555-123-4567",
		Subtotal:      subtotal,
		DeliveryFee:   decimal.Zero,
		Total:         subtotal,
		Source:        "website",
		CreatedAt:     time.Now().UTC(),
		Items:         items,
	}
}

func catalogLine(quantity int) models.OrderItem {
	menuItemID := "margherita"

	return models.OrderItem{
		MenuItemID:    &menuItemID,
		ItemName:      "Margherita",
		UnitPrice:     decimal.NewFromInt(12),
		Quantity:      quantity,
		LineTotal:     decimal.NewFromInt(int64(12 * quantity)),
		CatalogBacked: true,
	}
}

func countRows(test *testing.T, ctx context.Context, pool *pgxpool.Pool, table string, orderID uuid.UUID) int {
	test.Helper()

	column := "id"
	if table == "order_items" {
		column = "order_id"
	}

	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" WHERE "+column+" = $1", orderID).Scan(&count)
	require.NoError(test, err)

	return count
}

func TestCatalogStore(test *testing.T) {
	ctx, pool := setupPool(test)
	store := NewCatalogStore(pool)

	location, err := store.GetLocation(ctx, "downtown")
	require.NoError(test, err)
	assert.True(test, decimal.NewFromInt(4).Equal(location.DeliveryFee))
	assert.True(test, location.DeliveryEnabled)
	assert.True(test, location.IsAcceptingOrders)

	_, err = store.GetLocation(ctx, "missing")
	assert.ErrorIs(test, err, repositoryErrors.ErrLocationNotFound)

	items, err := store.GetMenuItems(ctx, []string{"margherita", "calzone", "not-on-menu"})
	require.NoError(test, err)
	assert.Len(test, items, 2)

	byID := map[string]models.MenuItem{}
	for _, item := range items {
		byID[item.ID] = item
	}
	assert.True(test, decimal.RequireFromString("14.50").Equal(byID["calzone"].Price))
	assert.False(test, byID["calzone"].Available)
}

func TestOrderStoreTransactional(test *testing.T) {
	ctx, pool := setupPool(test)
	store := NewOrderStore(pool, config.WriteModeTransactional)

	order := newOrder(catalogLine(3), models.OrderItem{
		ItemName:  "Chef Special",
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  2,
		LineTotal: decimal.NewFromInt(20),
	})

	saved, err := store.SaveOrder(ctx, order)
	require.NoError(test, err)
	assert.True(test, saved.ItemsPersisted)
	assert.Equal(test, 1, countRows(test, ctx, pool, "orders", order.ID))
	assert.Equal(test, 2, countRows(test, ctx, pool, "order_items", order.ID))

	var subtotal, itemsTotal string
	err = pool.QueryRow(ctx,
		`SELECT o.subtotal::text, SUM(i.line_total)::text
		 FROM orders o JOIN order_items i ON i.order_id = o.id
		 WHERE o.id = $1 GROUP BY o.subtotal`, order.ID).Scan(&subtotal, &itemsTotal)
	require.NoError(test, err)
	assert.Equal(test, "56.00", subtotal)
	assert.Equal(test, subtotal, itemsTotal)

	_, err = store.SaveOrder(ctx, order)
	assert.ErrorIs(test, err, repositoryErrors.ErrOrderAlreadyExists)
}

func TestOrderStoreTransactionalRollsBackOnItemFailure(test *testing.T) {
	ctx, pool := setupPool(test)
	store := NewOrderStore(pool, config.WriteModeTransactional)

	order := newOrder(catalogLine(100))

	_, err := store.SaveOrder(ctx, order)
	require.Error(test, err)
	assert.Equal(test, 0, countRows(test, ctx, pool, "orders", order.ID))
	assert.Equal(test, 0, countRows(test, ctx, pool, "order_items", order.ID))
}

func TestOrderStoreTwoStepKeepsHeaderOnItemFailure(test *testing.T) {
	ctx, pool := setupPool(test)
	store := NewOrderStore(pool, config.WriteModeTwoStep)

	order := newOrder(catalogLine(100))

	saved, err := store.SaveOrder(ctx, order)
	require.NoError(test, err)
	assert.False(test, saved.ItemsPersisted)
	assert.Equal(test, 1, countRows(test, ctx, pool, "orders", order.ID))
	assert.Equal(test, 0, countRows(test, ctx, pool, "order_items", order.ID))
}

func TestContactStore(test *testing.T) {
	ctx, pool := setupPool(test)
	store := NewContactStore(pool)

	phone := "555-123-4567"
	submission := models.ContactSubmission{
		ID:        uuid.New(),
		Name:      fakeValue.Name(),
		Email:     fakeValue.Email(),
		Phone:     &phone,
		Reason:    models.ContactReasonCatering,
		Message:   fakeValue.Sentence(10),
		ClientIP:  "203.0.113.7",
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(test, store.SaveSubmission(ctx, submission))
	assert.Equal(test, 1, countRows(test, ctx, pool, "contact_submissions", submission.ID))
}
