package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"golang.org/x/time/rate"

	"wm-pickup/internal/config"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/gateway/wm"
	"wm-pickup/internal/http/handlers"
	"wm-pickup/internal/http/router"
	"wm-pickup/internal/logx"
	"wm-pickup/internal/service/pickup"
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	newLogger  func(*config.Config) logx.Logger
	registerer prometheus.Registerer
	dbConnect  dbConnectFunc
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		newLogger:  NewLogger,
		registerer: prometheus.DefaultRegisterer,
		dbConnect:  connectDbWithRetry,
		logFatalf:  log.Fatalf,
	}
}

// WithConfig replaces configuration loading with a fixed config.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithLogger replaces the JSON stdout logger.
func (b *ContainerBuilder) WithLogger(logger logx.Logger) *ContainerBuilder {
	if logger != nil {
		b.newLogger = func(*config.Config) logx.Logger { return logger }
	}
	return b
}

// WithRegisterer sets where metrics are registered
func (b *ContainerBuilder) WithRegisterer(reg prometheus.Registerer) *ContainerBuilder {
	if reg != nil {
		b.registerer = reg
	}
	return b
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP server container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := b.registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the HTTP server container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func (b *ContainerBuilder) registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		b.loadConfig,
		b.newLogger,
		func() prometheus.Registerer { return b.registerer },
		newCounters,
	)
}

type gatewayIn struct {
	dig.In
	Config  *config.Config
	Logger  logx.Logger
	Client  *wm.Client
	Retries prometheus.Counter `name:"wm_gateway_retries_total"`
}

func newProviderClient(cfg *config.Config, logger logx.Logger) *wm.Client {
	p := cfg.Provider
	var limiter *rate.Limiter
	if p.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.RequestsPerSecond), max(p.Burst, 1))
	}
	return wm.NewClient(wm.Config{
		BaseURL:  p.APIURL,
		Email:    p.Email,
		Password: p.Password,
		Keys: wm.Keys{
			Authentication: p.Keys.Authentication,
			Accounts:       p.Keys.Accounts,
			Services:       p.Keys.Services,
			Holidays:       p.Keys.Holidays,
		},
		Timeout: p.Timeout,
	}, &http.Client{Timeout: p.Timeout}, limiter, logger.With(logx.String("component", "wm_gateway")))
}

func newRetryingGateway(in gatewayIn) *wm.RetryingGateway {
	r := in.Config.Retry
	return wm.NewRetryingGateway(in.Client, in.Logger, in.Retries, wm.RetryConfig{
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   r.BaseDelay,
		MaxDelay:    r.MaxDelay,
	})
}

func registerGateway(container *dig.Container) error {
	return provideAll(container,
		newProviderClient,
		newRetryingGateway,
	)
}

type pickupServiceIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Gateway  *wm.RetryingGateway
	Adjusted prometheus.Counter `name:"pickups_adjusted_total"`
}

func newPickupService(in pickupServiceIn) *pickup.Service {
	return pickup.NewService(in.Gateway, in.Logger, in.Adjusted, in.Config.Provider.OperationTimeout).
		WithScheduleHolidays(domain.HolidayType(in.Config.Sync.HolidayType))
}

func registerService(container *dig.Container) error {
	return provideAll(container, newPickupService)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.NewSessionReporter,
		handlers.New,
		handlers.NewPickupUsecase,
		handlers.NewPickupHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}
