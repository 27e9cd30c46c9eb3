package usecase

import (
	"fmt"
	"time"
)

// weekRange returns the calendar week offset weeks before the week containing
// now: Sunday 00:00:00 through Saturday 23:59:59. Offset 0 is the current week.
func weekRange(now time.Time, offset int) (time.Time, time.Time) {
	anchor := now.AddDate(0, 0, -7*offset)
	y, m, d := anchor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, anchor.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return start, end
}

// weekLabel formats a week start as "YYYY-Www" for progress display. It is a
// label, never a storage key.
func weekLabel(start time.Time) string {
	year, week := start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
