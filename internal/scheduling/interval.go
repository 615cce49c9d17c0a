package scheduling

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps is the single overlap predicate for bookings, blocks and slots:
// [a,b) and [c,d) overlap iff a < d and c < b. Touching ends do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// OverlapsAny reports whether iv overlaps at least one interval in others.
func OverlapsAny(iv Interval, others []Interval) bool {
	for _, o := range others {
		if Overlaps(iv, o) {
			return true
		}
	}
	return false
}

// Covers reports whether iv spans at least [start, end] inclusive.
func (iv Interval) Covers(start, end time.Time) bool {
	return !iv.Start.After(start) && !iv.End.Before(end)
}
