package holiday

import (
	"sort"
	"time"
)

// ImpactMap maps an original pickup date to its delayed date. Keys and values
// are calendar dates at midnight UTC.
type ImpactMap map[time.Time]time.Time

// Entry is one original/adjusted pair of an ImpactMap.
type Entry struct {
	Original time.Time
	Adjusted time.Time
}

// Lookup returns the adjusted date for the calendar date of d.
func (m ImpactMap) Lookup(d time.Time) (time.Time, bool) {
	v, ok := m[Day(d)]
	return v, ok
}

// Entries returns the pairs sorted by original date.
func (m ImpactMap) Entries() []Entry {
	out := make([]Entry, 0, len(m))
	for k, v := range m {
		out = append(out, Entry{Original: k, Adjusted: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Original.Before(out[j].Original)
	})
	return out
}

// Merge folds maps into a new map. For a date present in more than one map the
// value from the later map wins.
func Merge(maps ...ImpactMap) ImpactMap {
	out := ImpactMap{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// FromHolidays resolves each holiday and merges the results in list order.
func FromHolidays(holidays []Holiday, now time.Time) ImpactMap {
	maps := make([]ImpactMap, 0, len(holidays))
	for _, h := range holidays {
		maps = append(maps, Resolve(h.Message, h.Date, now))
	}
	return Merge(maps...)
}

// Normalize replaces every date found in impact with its adjusted value.
// The result has the same length and order as dates.
func Normalize(dates []time.Time, impact ImpactMap) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		if adjusted, ok := impact.Lookup(d); ok {
			out[i] = adjusted
			continue
		}
		out[i] = d
	}
	return out
}
