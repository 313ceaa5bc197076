// Package schedulesync keeps stored pickup schedules in step with the
// provider and announces pickups that a holiday newly delays.
package schedulesync

import (
	"context"
	"fmt"
	"time"

	"cloudeng.io/errors"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
	"wm-pickup/internal/logx"
	"wm-pickup/internal/transport/kafka"
)

// Report summarises one sync pass.
type Report struct {
	Accounts  int
	Services  int
	Published int
	Failed    int
}

// Syncer performs sync passes over every linked account.
type Syncer struct {
	pickups   Pickups
	store     Store
	publisher Publisher
	logger    logx.Logger
	published Counter
	now       func() time.Time
}

// New creates a Syncer. publisher and published may be nil.
func New(pickups Pickups, store Store, publisher Publisher, logger logx.Logger, published Counter) *Syncer {
	logger = logx.OrNop(logger)
	return &Syncer{
		pickups:   pickups,
		store:     store,
		publisher: publisher,
		logger:    logger,
		published: published,
		now:       time.Now,
	}
}

// WithClock replaces the time source stamped on saved snapshots.
func (s *Syncer) WithClock(now func() time.Time) *Syncer {
	if now != nil {
		s.now = now
	}
	return s
}

// Run syncs immediately and then once per interval until ctx is done.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.pass(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Syncer) pass(ctx context.Context) {
	started := s.now()
	rep, err := s.RunOnce(ctx)
	fields := []logx.Field{
		logx.Int("accounts", rep.Accounts),
		logx.Int("services", rep.Services),
		logx.Int("published", rep.Published),
		logx.Int("failed", rep.Failed),
		logx.Duration("took", s.now().Sub(started)),
	}
	if err != nil {
		s.logger.Error("sync pass finished with errors", append(fields, logx.Err(err))...)
		return
	}
	s.logger.Info("sync pass finished", fields...)
}

// RunOnce syncs every service of every account. A failing account or
// service does not stop the others; all failures are returned together.
func (s *Syncer) RunOnce(ctx context.Context) (Report, error) {
	var rep Report
	accounts, err := s.pickups.Accounts(ctx)
	if err != nil {
		return rep, fmt.Errorf("list accounts: %w", err)
	}

	var errs errors.M
	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			errs.Append(err)
			break
		}
		rep.Accounts++
		services, err := s.pickups.Services(ctx, acc.ID)
		if err != nil {
			rep.Failed++
			errs.Append(fmt.Errorf("account %s: list services: %w", acc.ID, err))
			continue
		}
		for _, svc := range services {
			rep.Services++
			n, err := s.syncService(ctx, acc.ID, svc.ID)
			rep.Published += n
			if err != nil {
				rep.Failed++
				errs.Append(fmt.Errorf("account %s service %s: %w", acc.ID, svc.ID, err))
			}
		}
	}
	return rep, errs.Err()
}

func (s *Syncer) syncService(ctx context.Context, accountID, serviceID string) (int, error) {
	schedule, err := s.pickups.Pickups(ctx, accountID, serviceID)
	if err != nil {
		return 0, fmt.Errorf("pickups: %w", err)
	}
	previous, err := s.store.Load(ctx, accountID, serviceID)
	if err != nil {
		return 0, err
	}

	fresh := NewDelays(previous, schedule.Delays)
	sent := 0
	if len(fresh) > 0 && s.publisher != nil {
		sent, err = s.publisher.Publish(ctx, accountID, serviceID, fresh)
		if sent > 0 && s.published != nil {
			s.published.Add(float64(sent))
		}
		if err != nil {
			if !kafka.IsPermanent(err) {
				// snapshot stays stale so the next pass resends
				return sent, fmt.Errorf("publish: %w", err)
			}
			s.logger.Warn("dropping undeliverable delay notices",
				logx.String("account_id", accountID),
				logx.String("service_id", serviceID),
				logx.Err(err),
			)
		}
	}

	if err := s.store.Save(ctx, schedule, s.now()); err != nil {
		return sent, err
	}
	return sent, nil
}

// NewDelays returns the delays not already recorded in previous with the
// same adjusted date.
func NewDelays(previous map[time.Time]time.Time, delays []domain.PickupDelay) []domain.PickupDelay {
	var out []domain.PickupDelay
	for _, d := range delays {
		if adjusted, ok := previous[holiday.Day(d.Original)]; ok && adjusted.Equal(d.Adjusted) {
			continue
		}
		out = append(out, d)
	}
	return out
}
