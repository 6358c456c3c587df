package planner

import (
	"fmt"
	"time"
)

// View is a calendar window used to filter and navigate events.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView accepts "day", "week" or "month".
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewDay, ViewWeek, ViewMonth:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Range returns the half-open window [start, end) of view around date,
// computed in date's location. Weeks start on Monday.
func Range(view View, date time.Time) (start, end time.Time) {
	y, m, d := date.Date()
	loc := date.Location()
	switch view {
	case ViewWeek:
		offset := (int(date.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7)
	case ViewMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	default:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	}
}

// Filter returns the events of view around date, ordered by date.
func Filter(events []Event, view View, date time.Time) []Event {
	start, end := Range(view, date)
	out := make([]Event, 0, len(events))
	for _, e := range events {
		at := e.Date.In(date.Location())
		if !at.Before(start) && at.Before(end) {
			out = append(out, e)
		}
	}
	SortByDate(out)
	return out
}

// Navigate moves date by steps windows of view (negative steps go back).
func Navigate(view View, date time.Time, steps int) time.Time {
	switch view {
	case ViewWeek:
		return date.AddDate(0, 0, 7*steps)
	case ViewMonth:
		return AddMonths(date, steps)
	default:
		return date.AddDate(0, 0, steps)
	}
}

// Label is the heading shown for view around date.
func Label(view View, date time.Time) string {
	switch view {
	case ViewWeek:
		start, end := Range(view, date)
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.AddDate(0, 0, -1).Format("Jan 2, 2006"))
	case ViewMonth:
		return date.Format("January 2006")
	default:
		return date.Format("Monday, January 2, 2006")
	}
}
