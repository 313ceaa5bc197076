// Package holiday turns the provider's free-text holiday announcements into
// pickup date adjustments.
//
// A holiday notice names the first affected day in the holiday's own month and
// a terminal day in the same or the following month. Every pickup from the
// holiday up to (not including) the terminal day slides by one or two days.
package holiday

import (
	"fmt"
	"strings"
	"time"

	"wm-pickup/internal/apperr"
)

// DateLayout is the layout of holidayDate values in the schedule response.
const DateLayout = time.DateOnly

// Holiday is a single entry of an account's holiday schedule.
type Holiday struct {
	Date    time.Time
	Message string
}

// ParseHoliday builds a Holiday from the raw schedule fields.
// A malformed date is an error; the message is taken as is.
func ParseHoliday(rawDate, message string) (Holiday, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(rawDate))
	if err != nil {
		return Holiday{}, fmt.Errorf("holiday date %q: %w: %w", rawDate, apperr.Invalid, err)
	}
	return Holiday{Date: d, Message: message}, nil
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
