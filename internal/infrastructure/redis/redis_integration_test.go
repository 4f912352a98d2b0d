//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	"github.com/nastyazhadan/restaurant-order/internal/ratelimit"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const (
	LongTimeout    = 2 * time.Minute
	StartupTimeout = 30 * time.Second
)

func setupClient(test *testing.T) (context.Context, *goredis.Client) {
	test.Helper()
	zapLogger.SetNopLogger()

	ctx, cancel := context.WithTimeout(context.Background(), LongTimeout)
	test.Cleanup(cancel)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.4-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(StartupTimeout),
		},
		Started: true,
	})
	if err != nil {
		test.Fatalf("failed to start redis container: %v", err)
	}
	test.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			test.Logf("failed to terminate redis container: %v", err)
		}
	})

	address, err := container.Endpoint(ctx, "")
	if err != nil {
		test.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: address})
	test.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(test, client.Ping(ctx).Err())

	return ctx, client
}

func TestRateLimitStoreWindow(test *testing.T) {
	ctx, client := setupClient(test)
	store := NewRateLimitStore(client)

	window := 2 * time.Second
	before := time.Now()

	count, resetAt, err := store.Hit(ctx, "order:create:203.0.113.7", window)
	require.NoError(test, err)
	assert.Equal(test, int64(1), count)
	assert.WithinDuration(test, before.Add(window), resetAt, 500*time.Millisecond)

	count, _, err = store.Hit(ctx, "order:create:203.0.113.7", window)
	require.NoError(test, err)
	assert.Equal(test, int64(2), count)

	time.Sleep(window + 200*time.Millisecond)

	count, _, err = store.Hit(ctx, "order:create:203.0.113.7", window)
	require.NoError(test, err)
	assert.Equal(test, int64(1), count, "counter restarts after the window")
}

func TestRateLimitStoreBehindLimiter(test *testing.T) {
	ctx, client := setupClient(test)

	limiter := ratelimit.NewLimiter(NewRateLimitStore(client), "contact:", ratelimit.Policy{
		MaxRequests: 2,
		Window:      time.Minute,
	})

	assert.True(test, limiter.Check(ctx, "198.51.100.4").Success)
	assert.True(test, limiter.Check(ctx, "198.51.100.4").Success)

	rejected := limiter.Check(ctx, "198.51.100.4")
	assert.False(test, rejected.Success)
	retryAfter := rejected.RetryAfter(time.Now(), time.Minute)
	assert.Greater(test, retryAfter, time.Duration(0))
	assert.LessOrEqual(test, retryAfter, time.Minute)
}

func TestLocationCache(test *testing.T) {
	ctx, client := setupClient(test)
	cache := NewLocationCache(client)

	_, err := cache.Get(ctx, "downtown")
	assert.ErrorIs(test, err, repositoryErrors.ErrCacheMiss)

	location := models.Location{
		ID:                "downtown",
		Name:              "Downtown",
		DeliveryFee:       decimal.RequireFromString("4.99"),
		DeliveryEnabled:   true,
		IsAcceptingOrders: true,
	}
	require.NoError(test, cache.Set(ctx, location, time.Minute))

	cached, err := cache.Get(ctx, "downtown")
	require.NoError(test, err)
	assert.Equal(test, location.Name, cached.Name)
	assert.True(test, location.DeliveryFee.Equal(cached.DeliveryFee))
	assert.True(test, cached.DeliveryEnabled)
}
