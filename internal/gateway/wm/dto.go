package wm

import (
	"fmt"
	"strings"
	"time"

	"wm-pickup/internal/apperr"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
)

// pickupDateLayout is the layout of pickupScheduleInfo.pickupDates entries.
const pickupDateLayout = "01-02-2006"

type addressDTO struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zipCode"`
}

type accountDTO struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Address addressDTO `json:"serviceAddress"`
}

type accountsResponse struct {
	Data struct {
		LinkedAccounts []accountDTO `json:"linkedAccounts"`
	} `json:"data"`
}

type serviceDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type servicesResponse struct {
	Services []serviceDTO `json:"services"`
}

type pickupInfoResponse struct {
	PickupScheduleInfo struct {
		PickupDates []string `json:"pickupDates"`
	} `json:"pickupScheduleInfo"`
}

type holidayDTO struct {
	HolidayDate  string `json:"holidayDate"`
	HolidayHours string `json:"holidayHours"`
}

type holidaysResponse struct {
	HolidayData []holidayDTO `json:"holidayData"`
}

func toAccount(dto accountDTO) domain.Account {
	return domain.Account{
		ID:   strings.TrimSpace(dto.ID),
		Name: dto.Name,
		Address: domain.Address{
			Street: dto.Address.Street,
			City:   dto.Address.City,
			State:  dto.Address.State,
			Zip:    dto.Address.Zip,
		},
	}
}

func toService(accountID string, dto serviceDTO) domain.Service {
	return domain.Service{
		ID:        strings.TrimSpace(dto.ID),
		AccountID: accountID,
		Name:      dto.Name,
		Type:      dto.Type,
	}
}

func parsePickupDates(raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse(pickupDateLayout, strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("pickup date %q: %w: %w", s, apperr.Invalid, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func toHolidays(raw []holidayDTO) ([]holiday.Holiday, error) {
	out := make([]holiday.Holiday, 0, len(raw))
	for _, dto := range raw {
		h, err := holiday.ParseHoliday(dto.HolidayDate, dto.HolidayHours)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
