package wm

import (
	"context"
	"time"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
	"wm-pickup/internal/logx"
)

type gateway interface {
	EnsureSession(ctx context.Context) error
	Accounts(ctx context.Context) ([]domain.Account, error)
	Services(ctx context.Context, accountID string) ([]domain.Service, error)
	PickupDates(ctx context.Context, accountID, serviceID string) ([]time.Time, error)
	Holidays(ctx context.Context, accountID string, typ domain.HolidayType) ([]holiday.Holiday, error)
}

var _ gateway = (*Client)(nil)

type counter interface {
	Inc()
}

// RetryConfig describes how RetryingGateway repeats failed calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries transient provider failures with exponential backoff.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway wraps next; it returns nil when next is nil.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	logger = logx.OrNop(logger)
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg}
}

// EnsureSession retries establishing a provider session.
func (g *RetryingGateway) EnsureSession(ctx context.Context) error {
	_, err := retry(ctx, g, "EnsureSession", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.next.EnsureSession(ctx)
	})
	return err
}

// Accounts retries listing linked accounts.
func (g *RetryingGateway) Accounts(ctx context.Context) ([]domain.Account, error) {
	return retry(ctx, g, "Accounts", g.next.Accounts)
}

// Services retries listing an account's services.
func (g *RetryingGateway) Services(ctx context.Context, accountID string) ([]domain.Service, error) {
	return retry(ctx, g, "Services", func(ctx context.Context) ([]domain.Service, error) {
		return g.next.Services(ctx, accountID)
	})
}

// PickupDates retries fetching raw pickup dates.
func (g *RetryingGateway) PickupDates(ctx context.Context, accountID, serviceID string) ([]time.Time, error) {
	return retry(ctx, g, "PickupDates", func(ctx context.Context) ([]time.Time, error) {
		return g.next.PickupDates(ctx, accountID, serviceID)
	})
}

// Holidays retries fetching the holiday schedule.
func (g *RetryingGateway) Holidays(ctx context.Context, accountID string, typ domain.HolidayType) ([]holiday.Holiday, error) {
	return retry(ctx, g, "Holidays", func(ctx context.Context) ([]holiday.Holiday, error) {
		return g.next.Holidays(ctx, accountID, typ)
	})
}

func retry[T any](ctx context.Context, g *RetryingGateway, method string, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		v, err := call(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("wm gateway retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

// backoff doubles base per attempt and caps at max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
