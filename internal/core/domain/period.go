package domain

import (
	"fmt"
	"time"
)

// Period selects the lower bound of a history query.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps the query value to a Period. An empty value means PeriodAll.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return Period(raw), nil
	}
	return "", fmt.Errorf("unknown period %q", raw)
}

// Since returns the inclusive lower bound for p relative to now.
// PeriodAll yields the zero time.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}
