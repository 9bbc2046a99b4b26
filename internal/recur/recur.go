// Package recur holds the calendar logic behind recurring tasks: the
// YYYY-MM-DD date form used throughout the store and the predicate deciding
// whether a recurring series applies to a given day.
package recur

import (
	"fmt"
	"time"
)

// Layout is the calendar-date form stored on tasks. Its lexicographic order
// matches chronological order, so date strings compare directly.
const Layout = "2006-01-02"

// Parse converts a YYYY-MM-DD string to a time at midnight UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t as a YYYY-MM-DD string.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AddDays returns the date string n days after date.
func AddDays(date string, n int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// ShouldRecur reports whether a series with the given weekdays applies to
// date. Weekdays are numbered 0=Sunday through 6=Saturday; an empty set
// means the series recurs daily.
func ShouldRecur(date time.Time, recurringDays []int) bool {
	if len(recurringDays) == 0 {
		return true
	}
	day := int(date.Weekday())
	for _, d := range recurringDays {
		if d == day {
			return true
		}
	}
	return false
}

// ShouldRecurOn is ShouldRecur over a YYYY-MM-DD string.
func ShouldRecurOn(date string, recurringDays []int) (bool, error) {
	t, err := Parse(date)
	if err != nil {
		return false, err
	}
	return ShouldRecur(t, recurringDays), nil
}
