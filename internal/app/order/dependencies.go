package order

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/infrastructure/breaker"
	"github.com/nastyazhadan/restaurant-order/internal/infrastructure/kafka"
	"github.com/nastyazhadan/restaurant-order/internal/infrastructure/postgres"
	repoRedis "github.com/nastyazhadan/restaurant-order/internal/infrastructure/redis"
	"github.com/nastyazhadan/restaurant-order/internal/ratelimit"
	"github.com/nastyazhadan/restaurant-order/internal/services/contact"
	svcOrder "github.com/nastyazhadan/restaurant-order/internal/services/order"
	"github.com/nastyazhadan/restaurant-order/internal/storage/memory"
	"github.com/nastyazhadan/restaurant-order/migrations"
	"github.com/nastyazhadan/restaurant-order/shared/infra/db"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const (
	orderLimiterPrefix   = "order:create:"
	contactLimiterPrefix = "contact:"
)

type storageSet struct {
	catalog  svcOrder.CatalogReader
	orders   svcOrder.Writer
	contacts contact.Saver
	remote   bool
}

type limiterSet struct {
	order   *ratelimit.Limiter
	contact *ratelimit.Limiter
}

type serviceSet struct {
	orders   *svcOrder.Service
	contacts *contact.Service
}

func usesRedis(cfg config.OrderConfig) bool {
	return cfg.RateLimiter.Backend == config.RateLimitBackendRedis || cfg.LocationCacheTTL > 0
}

// provideRedisClient returns nil when neither the limiter nor the location
// cache is configured for redis.
func provideRedisClient(
	ctx context.Context,
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
) (*goredis.Client, error) {
	if !usesRedis(cfg) {
		return nil, nil
	}

	client, err := repoRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

func provideStorage(
	ctx context.Context,
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
) (storageSet, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		zapLogger.Warn(ctx, "using in-memory storage, data is lost on restart")

		return storageSet{
			catalog:  memory.NewDemoCatalogStore(),
			orders:   memory.NewOrderStore(),
			contacts: memory.NewContactStore(),
		}, nil
	}

	pool, err := db.SetupDB(ctx, cfg.DBURI, migrations.Migrations)
	if err != nil {
		return storageSet{}, fmt.Errorf("db.SetupDB: %w", err)
	}

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return storageSet{
		catalog:  postgres.NewCatalogStore(pool),
		orders:   postgres.NewOrderStore(pool, cfg.WriteMode),
		contacts: postgres.NewContactStore(pool),
		remote:   true,
	}, nil
}

// provideCatalog puts the circuit breaker around a remote catalog and the
// redis location cache in front of it when a TTL is configured.
func provideCatalog(
	cfg config.OrderConfig,
	storage storageSet,
	redisClient *goredis.Client,
) svcOrder.CatalogReader {
	catalog := storage.catalog

	if storage.remote {
		catalog = breaker.NewCatalog(catalog, cfg.CircuitBreaker)
	}

	if redisClient != nil && cfg.LocationCacheTTL > 0 {
		catalog = svcOrder.NewCachedCatalog(catalog, repoRedis.NewLocationCache(redisClient), cfg.LocationCacheTTL)
	}

	return catalog
}

func provideLimiters(
	cfg config.OrderConfig,
	redisClient *goredis.Client,
) limiterSet {
	orderPolicy := ratelimit.Policy{MaxRequests: cfg.RateLimiter.OrderMax, Window: cfg.RateLimiter.OrderWindow}
	contactPolicy := ratelimit.Policy{MaxRequests: cfg.RateLimiter.ContactMax, Window: cfg.RateLimiter.ContactWindow}

	var store ratelimit.Store
	if cfg.RateLimiter.Backend == config.RateLimitBackendRedis && redisClient != nil {
		store = repoRedis.NewRateLimitStore(redisClient)
	} else {
		store = ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(cfg.RateLimiter.CleanupInterval))
	}

	return limiterSet{
		order:   ratelimit.NewLimiter(store, orderLimiterPrefix, orderPolicy),
		contact: ratelimit.NewLimiter(store, contactLimiterPrefix, contactPolicy),
	}
}

func providePublisher(
	ctx context.Context,
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
) (svcOrder.Publisher, error) {
	if !cfg.Kafka.Enabled() {
		return kafka.NoopPublisher{}, nil
	}

	producer, err := kafka.NewSyncProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	publisher := kafka.NewOrderPublisher(producer, cfg.Kafka.OrderTopic)

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	zapLogger.Info(ctx, "publishing order events to kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.OrderTopic),
	)

	return publisher, nil
}

func provideOrderService(
	cfg config.OrderConfig,
	catalog svcOrder.CatalogReader,
	storage storageSet,
	publisher svcOrder.Publisher,
	tracer trace.Tracer,
) *svcOrder.Service {
	resolver := svcOrder.NewResolver(catalog, svcOrder.NonCatalogPolicy{
		Mode:     cfg.NonCatalogPolicy,
		PriceCap: cfg.NonCatalogPriceCap,
	})

	return svcOrder.NewService(resolver, storage.orders, publisher, tracer, cfg.Source)
}

func provideContactService(storage storageSet) *contact.Service {
	return contact.NewService(storage.contacts)
}

func provideServices(orders *svcOrder.Service, contacts *contact.Service) serviceSet {
	return serviceSet{orders: orders, contacts: contacts}
}
