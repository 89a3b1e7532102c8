package core

import "time"

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

// DateOf truncates t to its calendar day in t's location, returned as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) time.Time {
	d := DateOf(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday closing the week that starts at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return DateOf(weekStart).AddDate(0, 0, 6)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
