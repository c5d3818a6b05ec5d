package app

import "time"

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// periodWindow resolves a period tag to an inclusive [start, end] date pair
// anchored on today. Weeks start on Monday; the monthly window covers the
// whole calendar month, including a leap-year February 29th.
func periodWindow(period string, today time.Time) (time.Time, time.Time, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch period {
	case PeriodDaily:
		return day, day, nil
	case PeriodWeekly:
		// Weekday is Sunday-based; shift so Monday maps to offset 0.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6), nil
	case PeriodMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location())
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}
