package util

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")

// ParseDateRange parses optional start/end bounds. A date-only end is made
// inclusive by returning the following midnight as the exclusive bound.
// Reversed bounds are swapped.
func ParseDateRange(startStr, endStr *string) (start time.Time, hasStart bool, endExclusive time.Time, hasEnd bool, err error) {
	rawStart, hasStart, _, err := parseDateOrTimestamp(startStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}
	rawEnd, hasEnd, endDateOnly, err := parseDateOrTimestamp(endStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}

	if hasStart && hasEnd && rawEnd.Before(rawStart) {
		rawStart, rawEnd = rawEnd, rawStart
	}

	if hasEnd {
		endExclusive = rawEnd
		if endDateOnly {
			endExclusive = rawEnd.AddDate(0, 0, 1)
		}
	}
	return rawStart, hasStart, endExclusive, hasEnd, nil
}

func parseDateOrTimestamp(s *string) (t time.Time, ok bool, dateOnly bool, err error) {
	if s == nil {
		return time.Time{}, false, false, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return time.Time{}, false, false, nil
	}
	if tt, e := time.Parse(time.RFC3339, v); e == nil {
		return tt, true, false, nil
	}
	if tt, e := time.Parse("2006-01-02", v); e == nil {
		return tt, true, true, nil
	}
	return time.Time{}, false, false, ErrInvalidDate
}
