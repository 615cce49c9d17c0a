package scheduling

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestResolveInstantUsesBusinessOffset(t *testing.T) {
	got := ResolveInstant(mustDate(t, "2025-06-02"), "09:00")
	want := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got.Format(time.RFC3339) != "2025-06-02T09:00:00-05:00" {
		t.Fatalf("unexpected rendering %s", got.Format(time.RFC3339))
	}
}

func TestResolveInstantIgnoresInputLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-06-02 in Tokyo, regardless of the instant it represents elsewhere.
	date := time.Date(2025, 6, 2, 1, 0, 0, 0, tokyo)
	got := ResolveInstant(date, "14:40")
	want := time.Date(2025, 6, 2, 19, 40, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveInstantPanicsOnMalformedClock(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for malformed time of day")
		}
	}()
	ResolveInstant(mustDate(t, "2025-06-02"), "9h")
}

func TestAddMinutes(t *testing.T) {
	start := ResolveInstant(mustDate(t, "2025-06-02"), "11:00")
	if got := AddMinutes(start, SlotMinutes); got.Format(ClockLayout) != "11:40" {
		t.Fatalf("expected 11:40, got %s", got.Format(ClockLayout))
	}
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(ResolveInstant(mustDate(t, "2025-06-03"), "15:20"))
	if start.Format(time.RFC3339Nano) != "2025-06-03T00:00:00-05:00" {
		t.Fatalf("unexpected day start %s", start.Format(time.RFC3339Nano))
	}
	if end.Format(time.RFC3339Nano) != "2025-06-03T23:59:59.999-05:00" {
		t.Fatalf("unexpected day end %s", end.Format(time.RFC3339Nano))
	}
}

func TestDaysBetween(t *testing.T) {
	from := ResolveInstant(mustDate(t, "2025-06-02"), "22:00")
	to := ResolveInstant(mustDate(t, "2025-06-04"), "01:00")
	days := DaysBetween(to, from)
	want := []string{"2025-06-02", "2025-06-03", "2025-06-04"}
	if len(days) != len(want) {
		t.Fatalf("expected %v, got %v", want, days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, days)
		}
	}
}

func TestCatalogOrderAndGap(t *testing.T) {
	entries := Catalog()
	if len(entries) != 10 {
		t.Fatalf("expected 10 catalog entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Time <= entries[i-1].Time {
			t.Fatalf("catalog not ordered at %d: %s <= %s", i, entries[i].Time, entries[i-1].Time)
		}
	}
	for _, e := range entries {
		if e.Time > "11:40" && e.Time < "14:00" {
			t.Fatalf("slot %s starts inside the midday gap", e.Time)
		}
		if e.Period == Morning && e.Time >= "14:00" {
			t.Fatalf("afternoon time %s tagged as morning", e.Time)
		}
	}

	entries[0].Time = "00:00"
	if Catalog()[0].Time != "09:00" {
		t.Fatal("Catalog must return a copy")
	}
}

func TestSlotsForWidth(t *testing.T) {
	slots := SlotsFor(mustDate(t, "2025-06-02"))
	for _, s := range slots {
		if s.End.Sub(s.Start) != 40*time.Minute {
			t.Fatalf("slot %s has width %s", s.Start, s.End.Sub(s.Start))
		}
	}
	if slots[0].Start.Format(time.RFC3339) != "2025-06-02T09:00:00-05:00" ||
		slots[0].End.Format(time.RFC3339) != "2025-06-02T09:40:00-05:00" {
		t.Fatalf("unexpected first slot %s-%s", slots[0].Start, slots[0].End)
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"future", now.Add(time.Minute), false},
		{"now", now, false},
		{"within tolerance", now.Add(-59 * time.Second), false},
		{"at tolerance", now.Add(-60 * time.Second), false},
		{"beyond tolerance", now.Add(-61 * time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPast(tt.start, now); got != tt.want {
				t.Fatalf("IsPast = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }
	iv := func(a, b int) Interval { return Interval{Start: at(a), End: at(b)} }

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", iv(0, 35), iv(0, 35), true},
		{"partial", iv(0, 35), iv(20, 55), true},
		{"contained", iv(0, 60), iv(10, 20), true},
		{"touching end", iv(0, 35), iv(35, 70), false},
		{"touching start", iv(35, 70), iv(0, 35), false},
		{"disjoint", iv(0, 10), iv(20, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps not symmetric")
			}
		})
	}

	if !OverlapsAny(iv(0, 35), []Interval{iv(40, 50), iv(30, 31)}) {
		t.Fatal("expected OverlapsAny to find the second interval")
	}
	if OverlapsAny(iv(0, 35), nil) {
		t.Fatal("expected no overlap against an empty set")
	}
}

func TestCovers(t *testing.T) {
	start, end := DayBounds(mustDate(t, "2025-06-03"))
	if !(Interval{Start: start, End: end}).Covers(start, end) {
		t.Fatal("a full-day interval must cover its own day")
	}
	if (Interval{Start: start.Add(time.Minute), End: end}).Covers(start, end) {
		t.Fatal("an interval starting after midnight must not cover the day")
	}
}
