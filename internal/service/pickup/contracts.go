//go:generate mockgen -source=contracts.go -destination=pickup_mocks_test.go -package=pickup_test

package pickup

import (
	"context"
	"time"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
)

// Gateway is the provider API as seen by the pickup service.
type Gateway interface {
	EnsureSession(ctx context.Context) error
	Accounts(ctx context.Context) ([]domain.Account, error)
	Services(ctx context.Context, accountID string) ([]domain.Service, error)
	PickupDates(ctx context.Context, accountID, serviceID string) ([]time.Time, error)
	Holidays(ctx context.Context, accountID string, typ domain.HolidayType) ([]holiday.Holiday, error)
}

// Counter counts adjusted pickups.
type Counter interface {
	Add(float64)
}
