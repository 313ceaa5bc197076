package domain

import "time"

// HolidayType selects which holidays the schedule lookup returns.
type HolidayType string

// Holiday schedule selectors.
const (
	HolidaysUpcoming HolidayType = "upcoming"
	HolidaysAll      HolidayType = "all"
)

// Valid checks if the HolidayType is known.
func (t HolidayType) Valid() bool {
	return t == HolidaysUpcoming || t == HolidaysAll
}

// PickupDelay is a scheduled pickup moved by a holiday.
type PickupDelay struct {
	Original time.Time
	Adjusted time.Time
}

// Days returns the whole-day shift of the delay.
func (d PickupDelay) Days() int {
	return int(d.Adjusted.Sub(d.Original).Hours() / 24)
}

// PickupSchedule is the holiday-adjusted pickup list of one service.
// Raw and Dates have equal length; Dates[i] is the adjusted Raw[i].
type PickupSchedule struct {
	AccountID string
	ServiceID string
	Raw       []time.Time
	Dates     []time.Time
	Delays    []PickupDelay
}
