package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"wm-pickup/internal/config"
	"wm-pickup/internal/gateway/wm"
	"wm-pickup/internal/http/middleware/ratelimit"
	"wm-pickup/internal/logx"
	"wm-pickup/internal/service/pickup"
	"wm-pickup/internal/service/schedulesync"
	"wm-pickup/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:      8080,
		LogLevel:  "info",
		Provider:  config.DefaultProvider(),
		Retry:     config.DefaultRetry(),
		DB:        config.DefaultDB(),
		Kafka:     config.DefaultKafka(),
		Sync:      config.DefaultSync(),
		RateLimit: config.DefaultRateLimit(),
	}
}

func testBuilder(cfg *config.Config) *ContainerBuilder {
	return NewContainerBuilder().
		WithConfig(cfg).
		WithLogger(logx.Nop()).
		WithRegisterer(prometheus.NewRegistry()).
		WithLogFatalf(func(format string, args ...interface{}) {
			panic("unexpected fatal: " + format)
		})
}

func TestBuild_ProvidesServerAndRoutes(t *testing.T) {
	t.Parallel()

	c := testBuilder(testConfig()).MustBuild(context.Background())

	err := c.Invoke(func(srv *http.Server, gw *wm.RetryingGateway, svc *pickup.Service) {
		require.NotNil(t, srv)
		require.Equal(t, ":8080", srv.Addr)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, srv.WriteTimeout, time.Duration(0))
		require.NotNil(t, gw)
		require.NotNil(t, svc)

		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	})
	require.NoError(t, err)
}

func TestBuild_RateLimiterFollowsConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	c := testBuilder(cfg).MustBuild(context.Background())

	err := c.Invoke(func(l ratelimit.Limiter) {
		_, ok := l.(ratelimit.NopLimiter)
		require.True(t, ok, "disabled rate limit must use NopLimiter")
	})
	require.NoError(t, err)

	c = testBuilder(testConfig()).MustBuild(context.Background())
	err = c.Invoke(func(l ratelimit.Limiter) {
		_, ok := l.(*ratelimit.KeyedLimiter)
		require.True(t, ok)
	})
	require.NoError(t, err)
}

func TestBuild_ConfigErrorIsFatal(t *testing.T) {
	t.Parallel()

	var fatal string
	b := NewContainerBuilder().
		WithLogger(logx.Nop()).
		WithRegisterer(prometheus.NewRegistry()).
		WithLogFatalf(func(format string, _ ...interface{}) { fatal = format })
	b.loadConfig = func() (*config.Config, error) { return nil, errors.New("bad config") }

	c := b.MustBuild(context.Background())
	require.NotNil(t, c, "providers are lazy, config is loaded on invoke")
	require.Error(t, c.Invoke(func(*http.Server) {}))
	require.Empty(t, fatal)
}

func TestBuildWorker_ProvidesSyncer(t *testing.T) {
	t.Parallel()

	connects := 0
	stub := func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
		connects++
		return &pgxpool.Pool{}, nil
	}

	c := testBuilder(testConfig()).WithDBConnect(stub).MustBuildWorker(context.Background())
	err := c.Invoke(func(s *schedulesync.Syncer, p *kafka.Publisher, pool *pgxpool.Pool) {
		require.NotNil(t, s)
		require.Nil(t, p, "no brokers configured")
		require.NotNil(t, pool)
	})
	require.NoError(t, err)
	require.Equal(t, 1, connects)
}

func TestRegisterCounter_ReusesExisting(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{Name: "x_total", Help: "x"}))
	require.NoError(t, err)
	second, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{Name: "x_total", Help: "x"}))
	require.NoError(t, err)

	second.Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(first))
}
