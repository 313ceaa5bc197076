package handlers

import (
	"time"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
)

func formatDate(t time.Time) string { return t.Format(holiday.DateLayout) }

func formatDates(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, formatDate(t))
	}
	return out
}

func accountsToResponse(list []domain.Account) []accountDTO {
	out := make([]accountDTO, 0, len(list))
	for _, a := range list {
		out = append(out, accountDTO{
			ID:   a.ID,
			Name: a.Name,
			Address: addressDTO{
				Street: a.Address.Street,
				City:   a.Address.City,
				State:  a.Address.State,
				Zip:    a.Address.Zip,
			},
		})
	}
	return out
}

func servicesToResponse(list []domain.Service) []serviceDTO {
	out := make([]serviceDTO, 0, len(list))
	for _, s := range list {
		out = append(out, serviceDTO{ID: s.ID, AccountID: s.AccountID, Name: s.Name, Type: s.Type})
	}
	return out
}

func impactToResponse(m holiday.ImpactMap) []impactDTO {
	entries := m.Entries()
	out := make([]impactDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, impactDTO{Original: formatDate(e.Original), Adjusted: formatDate(e.Adjusted)})
	}
	return out
}

func scheduleToResponse(s domain.PickupSchedule) scheduleDTO {
	delays := make([]delayDTO, 0, len(s.Delays))
	for _, d := range s.Delays {
		delays = append(delays, delayDTO{
			Original:  formatDate(d.Original),
			Adjusted:  formatDate(d.Adjusted),
			DelayDays: d.Days(),
		})
	}
	return scheduleDTO{
		AccountID: s.AccountID,
		ServiceID: s.ServiceID,
		Pickups:   formatDates(s.Raw),
		Scheduled: formatDates(s.Dates),
		Delays:    delays,
	}
}
