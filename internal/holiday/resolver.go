package holiday

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	notDelayedPhrase = "service will not be delayed"
	staleAfterYears  = 2
	defaultDelay     = 1
	pluralDelay      = 2
)

// delayPattern captures the quantity word of the first "delayed ... day"
// phrase. The filler is lazy-optional so a later "great day" on the same line
// is never picked up.
var delayPattern = regexp.MustCompile(`delayed (?:.*? )??(\S+) day`)

// rangePatterns[m-1] matches "<m> <n> ... <m> <n>" or "<m> <n> ... <m+1> <n>".
// Submatch 2 is a same-month end marker, submatch 3 a next-month one.
var rangePatterns = func() [12]*regexp.Regexp {
	var out [12]*regexp.Regexp
	for i := range months {
		m := time.Month(i + 1)
		cur, next := monthName(m), monthName(nextMonth(m))
		out[i] = regexp.MustCompile(fmt.Sprintf(`(%s \d+).+?(?:(%s \d+)|(%s \d+))`, cur, cur, next))
	}
	return out
}()

// Resolve maps every pickup date impacted by the holiday to its delayed date.
//
// It returns an empty map when the announcement says service is not delayed,
// when the holiday is more than two years older than now, or when no
// month/day range can be found in the message.
func Resolve(message string, holidayDate, now time.Time) ImpactMap {
	out := ImpactMap{}
	if strings.Contains(message, notDelayedPhrase) || now.Year()-holidayDate.Year() > staleAfterYears {
		return out
	}

	start := Day(holidayDate)
	end, ok := rangeEnd(message, start)
	if !ok {
		return out
	}

	delay := delayDays(message)
	window := int(end.Sub(start).Hours() / 24)
	for i := 0; i < window; i++ {
		d := start.AddDate(0, 0, i)
		out[d] = d.AddDate(0, 0, delay)
	}
	return out
}

// rangeEnd finds the exclusive end of the impact window.
func rangeEnd(message string, start time.Time) (time.Time, bool) {
	m := rangePatterns[start.Month()-1].FindStringSubmatch(message)
	if m == nil {
		return time.Time{}, false
	}

	marker, month, year := m[2], start.Month(), start.Year()
	if marker == "" {
		marker, month = m[3], nextMonth(start.Month())
		if start.Month() == time.December {
			year++
		}
	}

	day, err := strconv.Atoi(marker[strings.LastIndexByte(marker, ' ')+1:])
	if err != nil {
		return time.Time{}, false
	}
	end := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if end.Day() != day || end.Month() != month {
		return time.Time{}, false
	}
	return end, true
}

// delayDays only tells "one" from anything else; "three days" counts as two.
func delayDays(message string) int {
	m := delayPattern.FindStringSubmatch(message)
	if m == nil || m[1] == "one" {
		return defaultDelay
	}
	return pluralDelay
}
