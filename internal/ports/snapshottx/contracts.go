package snapshottx

import (
	"context"
	"time"
)

// Row is one stored pickup: the provider date and the date it was moved to.
type Row struct {
	AccountID string
	ServiceID string
	Pickup    time.Time
	Adjusted  time.Time
	SyncedAt  time.Time
}

// Repository is the transactional snapshot repository
type Repository interface {
	DeleteService(ctx context.Context, accountID, serviceID string) (int64, error)
	InsertRows(ctx context.Context, rows []Row) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
