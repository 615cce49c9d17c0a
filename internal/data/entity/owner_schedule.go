package entity

import "time"

// OwnerSchedule holds declared business hours for one weekday (0 = Sunday).
// Availability does not read it; the slot catalog is fixed.
type OwnerSchedule struct {
	Weekday   int       `db:"weekday"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Active    bool      `db:"active"`
	UpdatedAt time.Time `db:"updated_at"`
}
