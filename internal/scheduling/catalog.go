package scheduling

import "time"

const (
	// ServiceMinutes is the effective work time of one appointment.
	ServiceMinutes = 35
	// RestMinutes is the cleanup gap that follows each appointment.
	RestMinutes = 5
	// SlotMinutes is the total width of a catalog slot.
	SlotMinutes = ServiceMinutes + RestMinutes

	// PastTolerance is how far in the past a start time may be and still count as bookable.
	PastTolerance = 60 * time.Second
)

// Period groups catalog slots by part of the day.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
)

// CatalogEntry is one bookable start time.
type CatalogEntry struct {
	Period Period
	Time   string
}

// Nothing starts between the last morning slot and 14:00.
var catalog = []CatalogEntry{
	{Morning, "09:00"},
	{Morning, "09:40"},
	{Morning, "10:20"},
	{Morning, "11:00"},
	{Afternoon, "14:00"},
	{Afternoon, "14:40"},
	{Afternoon, "15:20"},
	{Afternoon, "16:00"},
	{Afternoon, "16:40"},
	{Afternoon, "17:20"},
}

// Catalog returns the daily slot start times in order. The slice is a copy.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// Slot is a derived, offerable window on a concrete date.
type Slot struct {
	Period    Period
	Start     time.Time
	End       time.Time
	Available bool
}

// Interval returns the slot as a half-open interval.
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// SlotsFor resolves every catalog entry on date, each SlotMinutes wide.
func SlotsFor(date time.Time) []Slot {
	slots := make([]Slot, 0, len(catalog))
	for _, e := range catalog {
		start := ResolveInstant(date, e.Time)
		slots = append(slots, Slot{
			Period: e.Period,
			Start:  start,
			End:    AddMinutes(start, SlotMinutes),
		})
	}
	return slots
}

// IsPast reports whether start lies further in the past than PastTolerance.
func IsPast(start, now time.Time) bool {
	return start.Before(now.Add(-PastTolerance))
}
