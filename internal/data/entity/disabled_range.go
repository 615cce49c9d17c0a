package entity

import "time"

// DisabledRange is time the owner has taken off the calendar.
type DisabledRange struct {
	BaseSimple
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Reason    *string   `db:"reason"`
}
