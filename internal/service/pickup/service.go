package pickup

import (
	"context"
	"strings"
	"time"

	"wm-pickup/internal/apperr"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
	"wm-pickup/internal/logx"
)

const defaultTimeout = 3 * time.Second

// Service answers account, service and holiday-adjusted pickup queries.
type Service struct {
	gw               Gateway
	logger           logx.Logger
	adjusted         Counter
	operationTimeout time.Duration
	now              func() time.Time
	scheduleHolidays domain.HolidayType
}

// NewService creates a pickup Service. A non-positive timeout falls back to 3s.
func NewService(gw Gateway, logger logx.Logger, adjusted Counter, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger = logx.OrNop(logger)
	return &Service{
		gw:               gw,
		logger:           logger,
		adjusted:         adjusted,
		operationTimeout: timeout,
		now:              time.Now,
		scheduleHolidays: domain.HolidaysAll,
	}
}

// WithScheduleHolidays selects which holidays Pickups applies. Unknown
// selectors are ignored.
func (s *Service) WithScheduleHolidays(typ domain.HolidayType) *Service {
	if typ.Valid() {
		s.scheduleHolidays = typ
	}
	return s
}

// WithClock replaces the evaluation time source used for holiday staleness.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperr.Invalid
	}
	return id, nil
}

// Accounts lists the linked accounts.
func (s *Service) Accounts(ctx context.Context) ([]domain.Account, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.gw.EnsureSession(ctx); err != nil {
		return nil, err
	}
	return s.gw.Accounts(ctx)
}

// Services lists the collection services of an account.
func (s *Service) Services(ctx context.Context, accountID string) ([]domain.Service, error) {
	accountID, err := validateID(accountID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.gw.EnsureSession(ctx); err != nil {
		return nil, err
	}
	return s.gw.Services(ctx, accountID)
}

// Holidays resolves the account's holiday schedule into one impact map.
func (s *Service) Holidays(ctx context.Context, accountID string, typ domain.HolidayType) (holiday.ImpactMap, error) {
	accountID, err := validateID(accountID)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		typ = domain.HolidaysUpcoming
	}
	if !typ.Valid() {
		return nil, apperr.Invalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.gw.EnsureSession(ctx); err != nil {
		return nil, err
	}
	return s.impact(ctx, accountID, typ)
}

func (s *Service) impact(ctx context.Context, accountID string, typ domain.HolidayType) (holiday.ImpactMap, error) {
	hs, err := s.gw.Holidays(ctx, accountID, typ)
	if err != nil {
		return nil, err
	}
	return holiday.FromHolidays(hs, s.now()), nil
}

// Pickups returns a service's pickup dates with holiday delays applied. By
// default all holidays of the account are considered, not only upcoming ones.
func (s *Service) Pickups(ctx context.Context, accountID, serviceID string) (domain.PickupSchedule, error) {
	accountID, err := validateID(accountID)
	if err != nil {
		return domain.PickupSchedule{}, err
	}
	serviceID, err = validateID(serviceID)
	if err != nil {
		return domain.PickupSchedule{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.gw.EnsureSession(ctx); err != nil {
		return domain.PickupSchedule{}, err
	}

	raw, err := s.gw.PickupDates(ctx, accountID, serviceID)
	if err != nil {
		return domain.PickupSchedule{}, err
	}
	impact, err := s.impact(ctx, accountID, s.scheduleHolidays)
	if err != nil {
		return domain.PickupSchedule{}, err
	}

	dates := holiday.Normalize(raw, impact)
	var delays []domain.PickupDelay
	for i := range raw {
		if !dates[i].Equal(raw[i]) {
			delays = append(delays, domain.PickupDelay{Original: raw[i], Adjusted: dates[i]})
		}
	}

	if len(delays) > 0 {
		if s.adjusted != nil {
			s.adjusted.Add(float64(len(delays)))
		}
		s.logger.Info("pickups adjusted for holidays",
			logx.String("account_id", accountID),
			logx.String("service_id", serviceID),
			logx.Int("adjusted", len(delays)),
			logx.Int("impacted_dates", len(impact)),
		)
	}

	return domain.PickupSchedule{
		AccountID: accountID,
		ServiceID: serviceID,
		Raw:       raw,
		Dates:     dates,
		Delays:    delays,
	}, nil
}
