package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"wm-pickup/internal/config"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/logx"
	"wm-pickup/internal/service/schedulesync"
	testlog "wm-pickup/internal/testutil"
)

func TestWorkerRunner_MustRun_NoPanicOnNil(t *testing.T) {
	r := &WorkerRunner{runFn: func(*dig.Container) error { return nil }}
	require.NotPanics(t, func() { r.MustRun(dig.New()) })
}

func TestWorkerRunner_MustRun_NoPanicOnCanceled(t *testing.T) {
	r := &WorkerRunner{runFn: func(*dig.Container) error { return context.Canceled }}
	require.NotPanics(t, func() { r.MustRun(dig.New()) })
}

func TestWorkerRunner_MustRun_PanicsOnOtherError(t *testing.T) {
	sentinel := errors.New("boom")
	r := &WorkerRunner{runFn: func(*dig.Container) error { return sentinel }}
	require.Panics(t, func() { r.MustRun(dig.New()) })
}

func TestWorkerRun_ReturnsError_WhenSyncerNil(t *testing.T) {
	cfg := &config.Config{Sync: config.DefaultSync()}
	err := workerRun(context.Background(), cfg, logx.Nop(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "syncer is nil")
}

type emptyPickups struct{}

func (emptyPickups) Accounts(context.Context) ([]domain.Account, error) { return nil, nil }

func (emptyPickups) Services(context.Context, string) ([]domain.Service, error) { return nil, nil }

func (emptyPickups) Pickups(context.Context, string, string) (domain.PickupSchedule, error) {
	return domain.PickupSchedule{}, nil
}

type nopStore struct{}

func (nopStore) Load(context.Context, string, string) (map[time.Time]time.Time, error) {
	return nil, nil
}

func (nopStore) Save(context.Context, domain.PickupSchedule, time.Time) error { return nil }

func TestWorkerRun_RunsUntilCanceled(t *testing.T) {
	rec := testlog.New()
	cfg := &config.Config{Sync: config.Sync{Interval: 5 * time.Millisecond, HolidayType: "all"}}
	syncer := schedulesync.New(emptyPickups{}, nopStore{}, nil, rec.Logger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := workerRun(ctx, cfg, rec.Logger(), syncer)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, rec.ByMsg("kafka not configured, delay notices are not published"), 1)
	require.Len(t, rec.ByMsg("wm-pickup-worker started"), 1)
	require.NotEmpty(t, rec.ByMsg("sync pass finished"))
}
