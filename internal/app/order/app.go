package order

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/http/middleware"
	httpOrder "github.com/nastyazhadan/restaurant-order/internal/http/order"
	"github.com/nastyazhadan/restaurant-order/internal/metrics"
	"github.com/nastyazhadan/restaurant-order/internal/validation"
	"github.com/nastyazhadan/restaurant-order/shared/infra/tracing"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const readHeaderTimeout = 5 * time.Second

func Run(ctx context.Context, cfg config.OrderConfig) error {
	if err := zapLogger.Init(cfg.LogLevel, cfg.LogFormat == "json"); err != nil {
		return fmt.Errorf("zapLogger.Init: %w", err)
	}

	app := fx.New(
		Options(ctx, cfg),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zapLogger.Logger()}
		}),
	)

	app.Run()

	return app.Err()
}

// Options is the whole dependency graph. Tests build it with fxtest.
func Options(ctx context.Context, cfg config.OrderConfig) fx.Option {
	return fx.Options(
		fx.Provide(
			func() context.Context {
				return ctx
			},
			func() config.OrderConfig {
				return cfg
			},
		),
		fx.Provide(
			provideTracer,
			provideRedisClient,
			provideStorage,
			provideCatalog,
			provideLimiters,
			providePublisher,
			provideOrderService,
			provideContactService,
			provideServices,
			provideValidator,
			metrics.New,
			provideHandler,
			provideRouter,
			provideListener,
			provideHTTPServer,
		),
		fx.Invoke(
			registerLogger,
			startHTTPServer,
		),
	)
}

func registerLogger(lifeCycle fx.Lifecycle) {
	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = zapLogger.Sync()

			return nil
		},
	})
}

func provideTracer(
	ctx context.Context,
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
) (trace.Tracer, error) {
	provider, shutdown, err := tracing.NewTracerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	lifeCycle.Append(fx.Hook{
		OnStop: shutdown,
	})

	return provider.Tracer(cfg.ServiceName), nil
}

func provideValidator() (*validation.Validator, error) {
	return validation.New()
}

func provideHandler(
	services serviceSet,
	limiters limiterSet,
	validator *validation.Validator,
	m *metrics.Metrics,
) *httpOrder.Handler {
	return httpOrder.NewHandler(
		services.orders,
		services.contacts,
		limiters.order,
		limiters.contact,
		validator,
		m,
	)
}

func provideRouter(
	cfg config.OrderConfig,
	handler *httpOrder.Handler,
	m *metrics.Metrics,
	redisClient *goredis.Client,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(m),
		middleware.Recovery(),
	)

	router.GET("/healthz", func(c *gin.Context) {
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	httpOrder.Register(router, handler)

	return router
}

func provideListener(
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
) (net.Listener, error) {
	listener, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			errClose := listener.Close()
			if errClose != nil && !errors.Is(errClose, net.ErrClosed) {
				return errClose
			}

			return nil
		},
	})

	return listener, nil
}

func provideHTTPServer(
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
	router *gin.Engine,
) *http.Server {
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	})

	return server
}

func startHTTPServer(
	lifeCycle fx.Lifecycle,
	server *http.Server,
	listener net.Listener,
) {
	lifeCycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			zapLogger.Info(ctx, fmt.Sprintf("Starting HTTP order server on %s", listener.Addr()))
			go func() {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					zapLogger.Error(ctx, "HTTP order server error", zap.Error(err))
				}
			}()

			return nil
		},
	})
}
