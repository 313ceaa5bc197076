package schedulesync

import (
	"context"
	"time"

	"wm-pickup/internal/domain"
)

// Pickups yields accounts, services and holiday-adjusted schedules.
type Pickups interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
	Services(ctx context.Context, accountID string) ([]domain.Service, error)
	Pickups(ctx context.Context, accountID, serviceID string) (domain.PickupSchedule, error)
}

// Store keeps the last synced schedule of every service.
type Store interface {
	Load(ctx context.Context, accountID, serviceID string) (map[time.Time]time.Time, error)
	Save(ctx context.Context, s domain.PickupSchedule, syncedAt time.Time) error
}

// Publisher announces newly delayed pickups.
type Publisher interface {
	Publish(ctx context.Context, accountID, serviceID string, delays []domain.PickupDelay) (int, error)
}

// Counter is the subset of a prometheus counter the syncer needs.
type Counter interface {
	Add(float64)
}
