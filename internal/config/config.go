package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	WriteModeTransactional = "transactional"
	WriteModeTwoStep       = "two_step"

	NonCatalogAccept = "accept"
	NonCatalogCap    = "cap"
	NonCatalogReject = "reject"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"

	MaxLocationCacheTTL = time.Minute
)

type OrderConfig struct {
	HTTPAddress     string
	MetricsEnabled  bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	StorageDriver string
	DBURI         string

	WriteMode          string
	NonCatalogPolicy   string
	NonCatalogPriceCap decimal.Decimal
	Source             string
	LocationCacheTTL   time.Duration

	OTLPEndpoint string
	ServiceName  string

	RateLimiter    RateLimiterConfig
	Redis          RedisConfig
	CircuitBreaker CircuitBreakerConfig
	Kafka          KafkaConfig
}

type RateLimiterConfig struct {
	Backend         string
	OrderMax        int64
	OrderWindow     time.Duration
	ContactMax      int64
	ContactWindow   time.Duration
	CleanupInterval time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Address() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type CircuitBreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	MaxFailures uint32
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads an optional dotenv file and then the process environment.
// Variables already present in the environment win over the file.
func Load(envPath string) (OrderConfig, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return OrderConfig{}, fmt.Errorf("godotenv.Load: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("DB_URI", "")

	v.SetDefault("ORDER_WRITE_MODE", WriteModeTransactional)
	v.SetDefault("ORDER_NON_CATALOG_POLICY", NonCatalogCap)
	v.SetDefault("ORDER_NON_CATALOG_PRICE_CAP", "200")
	v.SetDefault("ORDER_SOURCE", "website")
	v.SetDefault("LOCATION_CACHE_TTL", "0s")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "restaurant-order")

	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitBackendMemory)
	v.SetDefault("RATE_LIMIT_ORDER_MAX", 10)
	v.SetDefault("RATE_LIMIT_ORDER_WINDOW", "1m")
	v.SetDefault("RATE_LIMIT_CONTACT_MAX", 5)
	v.SetDefault("RATE_LIMIT_CONTACT_WINDOW", "10m")
	v.SetDefault("RATE_LIMIT_CLEANUP_INTERVAL", "1m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CB_MAX_REQUESTS", 3)
	v.SetDefault("CB_INTERVAL", "10s")
	v.SetDefault("CB_TIMEOUT", "5s")
	v.SetDefault("CB_MAX_FAILURES", 5)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ORDER_TOPIC", "orders.created")
}

func fromViper(v *viper.Viper) (OrderConfig, error) {
	priceCap, err := decimal.NewFromString(v.GetString("ORDER_NON_CATALOG_PRICE_CAP"))
	if err != nil {
		return OrderConfig{}, fmt.Errorf("ORDER_NON_CATALOG_PRICE_CAP: %w", err)
	}

	cfg := OrderConfig{
		HTTPAddress:     v.GetString("HTTP_ADDRESS"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DBURI:         v.GetString("DB_URI"),

		WriteMode:          strings.ToLower(v.GetString("ORDER_WRITE_MODE")),
		NonCatalogPolicy:   strings.ToLower(v.GetString("ORDER_NON_CATALOG_POLICY")),
		NonCatalogPriceCap: priceCap,
		Source:             v.GetString("ORDER_SOURCE"),
		LocationCacheTTL:   v.GetDuration("LOCATION_CACHE_TTL"),
		OTLPEndpoint:       v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:        v.GetString("OTEL_SERVICE_NAME"),

		RateLimiter: RateLimiterConfig{
			Backend:         strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
			OrderMax:        v.GetInt64("RATE_LIMIT_ORDER_MAX"),
			OrderWindow:     v.GetDuration("RATE_LIMIT_ORDER_WINDOW"),
			ContactMax:      v.GetInt64("RATE_LIMIT_CONTACT_MAX"),
			ContactWindow:   v.GetDuration("RATE_LIMIT_CONTACT_WINDOW"),
			CleanupInterval: v.GetDuration("RATE_LIMIT_CLEANUP_INTERVAL"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests: v.GetUint32("CB_MAX_REQUESTS"),
			Interval:    v.GetDuration("CB_INTERVAL"),
			Timeout:     v.GetDuration("CB_TIMEOUT"),
			MaxFailures: v.GetUint32("CB_MAX_FAILURES"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetString("KAFKA_BROKERS")),
			OrderTopic: v.GetString("KAFKA_ORDER_TOPIC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return OrderConfig{}, err
	}

	return cfg, nil
}

func (c OrderConfig) Validate() error {
	const op = "OrderConfig.Validate"

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DBURI == "" {
			return fmt.Errorf("%s: DB_URI is required for the postgres storage driver", op)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%s: unknown STORAGE_DRIVER %q", op, c.StorageDriver)
	}

	switch c.WriteMode {
	case WriteModeTransactional, WriteModeTwoStep:
	default:
		return fmt.Errorf("%s: unknown ORDER_WRITE_MODE %q", op, c.WriteMode)
	}

	switch c.NonCatalogPolicy {
	case NonCatalogAccept, NonCatalogReject:
	case NonCatalogCap:
		if !c.NonCatalogPriceCap.IsPositive() {
			return fmt.Errorf("%s: ORDER_NON_CATALOG_PRICE_CAP must be positive", op)
		}
	default:
		return fmt.Errorf("%s: unknown ORDER_NON_CATALOG_POLICY %q", op, c.NonCatalogPolicy)
	}

	switch c.RateLimiter.Backend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return fmt.Errorf("%s: unknown RATE_LIMIT_BACKEND %q", op, c.RateLimiter.Backend)
	}

	if c.RateLimiter.OrderMax <= 0 || c.RateLimiter.ContactMax <= 0 {
		return fmt.Errorf("%s: rate limit maximums must be positive", op)
	}

	if c.RateLimiter.OrderWindow <= 0 || c.RateLimiter.ContactWindow <= 0 {
		return fmt.Errorf("%s: rate limit windows must be positive", op)
	}

	// A cached location can accept orders for up to this long after it closes.
	if c.LocationCacheTTL < 0 || c.LocationCacheTTL > MaxLocationCacheTTL {
		return fmt.Errorf("%s: LOCATION_CACHE_TTL must be between 0 and %s", op, MaxLocationCacheTTL)
	}

	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

