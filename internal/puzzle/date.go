package puzzle

import (
	"fmt"
	"time"
)

// KeyLayout formats a puzzle date the way the site names its pages.
const KeyLayout = "20060102"

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CandidateDates returns days dates counting backward from now, today first.
func CandidateDates(now time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	today := Day(now)
	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, -i)
	}
	return dates
}

// ParseKey parses a YYYYMMDD date as used by the --date flag.
func ParseKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: want YYYYMMDD", s)
	}
	return t, nil
}
