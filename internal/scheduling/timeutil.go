// Package scheduling holds the pure time arithmetic behind availability:
// business-time resolution, the fixed slot catalog and the overlap predicate.
package scheduling

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format accepted on the wire.
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day format used by the catalog and owner blocks.
	ClockLayout = "15:04"

	businessOffset = -5 * 60 * 60
)

// Location is the business timezone: a fixed UTC-5 offset with no daylight saving.
var Location = time.FixedZone("UTC-05:00", businessOffset)

// ParseDate parses a YYYY-MM-DD string as midnight of that day in business time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// ParseClock splits an HH:mm string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ResolveInstant anchors a time of day on the calendar day of date, in business time.
// Only the year, month and day of date are used; its location is ignored.
// timeOfDay must already be validated as HH:mm.
func ResolveInstant(date time.Time, timeOfDay string) time.Time {
	hour, minute, err := ParseClock(timeOfDay)
	if err != nil {
		panic(err)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, Location)
}

// AddMinutes shifts an instant by a number of minutes.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// DayBounds returns the first and last instant of the business day containing t.
// The end is 23:59:59.999, the same value a full-day block is stored with.
func DayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.In(Location).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, Location)
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// BusinessDate formats t as the YYYY-MM-DD business day it falls on.
func BusinessDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// DaysBetween lists every business day touched by [from, to], in order.
func DaysBetween(from, to time.Time) []string {
	if to.Before(from) {
		from, to = to, from
	}
	start, _ := DayBounds(from)
	last, _ := DayBounds(to)

	var days []string
	for d := start; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}
