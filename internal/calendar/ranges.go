package calendar

import (
	"fmt"
	"time"
)

// View is the visible calendar span
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView validates a view name; empty means month
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewMonth:
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("invalid calendar view %q: must be one of month, week, day", s)
}

// Range is an inclusive instant range
type Range struct {
	Start time.Time
	End   time.Time
}

// MonthRange spans the first to the last instant of t's month
func MonthRange(t time.Time) Range {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Millisecond)}
}

// WeekRange spans Monday 00:00 to Sunday 23:59:59.999 of t's week
func WeekRange(t time.Time) Range {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Millisecond)}
}

// DayRange spans t's calendar day
func DayRange(t time.Time) Range {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Millisecond)}
}

// RangeFor returns the visible range for a view anchored at t
func RangeFor(v View, t time.Time) Range {
	switch v {
	case ViewWeek:
		return WeekRange(t)
	case ViewDay:
		return DayRange(t)
	default:
		return MonthRange(t)
	}
}
