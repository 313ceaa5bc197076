package holiday

import "time"

// months is the ordered month-name table used to anchor announcement ranges.
var months = [12]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

func monthName(m time.Month) string {
	return months[int(m)-1]
}

// nextMonth wraps December to January.
func nextMonth(m time.Month) time.Month {
	return time.Month(int(m)%12 + 1)
}
