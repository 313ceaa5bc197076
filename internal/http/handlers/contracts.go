package handlers

import (
	"context"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/gateway/wm"
	"wm-pickup/internal/holiday"
	"wm-pickup/internal/service/pickup"
)

type pickupUsecase interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
	Services(ctx context.Context, accountID string) ([]domain.Service, error)
	Holidays(ctx context.Context, accountID string, typ domain.HolidayType) (holiday.ImpactMap, error)
	Pickups(ctx context.Context, accountID, serviceID string) (domain.PickupSchedule, error)
}

type sessionReporter interface {
	SessionActive() bool
}

// NewSessionReporter exposes the provider client's session state to health checks.
func NewSessionReporter(c *wm.Client) sessionReporter {
	return c
}

// NewPickupUsecase wires a pickup.Service into a pickupUsecase.
func NewPickupUsecase(svc *pickup.Service) pickupUsecase {
	return svc
}
