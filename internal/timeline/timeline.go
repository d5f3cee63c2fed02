package timeline

import (
	"fmt"
	"time"
)

// DateLayout is the user-local calendar day key used everywhere in the engine.
// Grouping is always by this string, never by timestamp, so a late-evening
// entry in a non-UTC timezone can't drift into the wrong day.
const DateLayout = "2006-01-02"

// Parse validates a calendar date string.
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Today returns the current calendar date in the given location.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}

// AddDays shifts a date by n calendar days. Dates are assumed valid.
func AddDays(date string, n int) string {
	t, _ := time.Parse(DateLayout, date)
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// Window returns the w calendar dates ending at (and including) anchor,
// oldest first.
func Window(anchor string, w int) []string {
	if w <= 0 {
		return nil
	}
	dates := make([]string, 0, w)
	for i := w - 1; i >= 0; i-- {
		dates = append(dates, AddDays(anchor, -i))
	}
	return dates
}

// AdjacentWindows returns the w-day window ending at anchor and the w-day
// window immediately before it, for week-over-week comparisons.
func AdjacentWindows(anchor string, w int) (current, previous []string) {
	current = Window(anchor, w)
	previous = Window(AddDays(anchor, -w), w)
	return current, previous
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date string) string {
	t, _ := time.Parse(DateLayout, date)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1)).Format(DateLayout)
}

// WeekDates returns the seven dates of the week starting at weekStart.
func WeekDates(weekStart string) []string {
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, AddDays(weekStart, i))
	}
	return dates
}

// DaysElapsedInWeek counts the days of asOf's week up to and including asOf.
// Monday returns 1, Sunday returns 7.
func DaysElapsedInWeek(asOf string) int {
	t, _ := time.Parse(DateLayout, asOf)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday
}

// DaysBetween returns the number of calendar days from a to b (b after a is
// positive).
func DaysBetween(a, b string) int {
	ta, _ := time.Parse(DateLayout, a)
	tb, _ := time.Parse(DateLayout, b)
	return int(tb.Sub(ta).Hours() / 24)
}

// Before reports whether a is strictly earlier than b. Lexicographic order
// matches chronological order for this layout.
func Before(a, b string) bool {
	return a < b
}
