package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// ActiveBookingStatuses are the statuses that occupy the chair.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// ParseBookingStatus accepts only the four known statuses.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return st, true
	}
	return "", false
}

// IsActive reports whether bookings in this status take part in overlap checks.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// NotifiesClient reports whether moving into this status mails the client.
func (s BookingStatus) NotifiesClient() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled || s == BookingStatusCompleted
}

type Booking struct {
	BaseNoDelete
	ClientID  uuid.UUID     `db:"client_id"`
	ServiceID uuid.UUID     `db:"service_id"`
	StartTime time.Time     `db:"start_time"`
	EndTime   time.Time     `db:"end_time"`
	Status    BookingStatus `db:"status"`
	Notes     *string       `db:"notes"`
}

// BookingDetail is a booking joined with its service and client.
type BookingDetail struct {
	Booking
	ServiceName  string  `db:"service_name"`
	ServicePrice float64 `db:"service_price"`
	ClientName   string  `db:"client_name"`
	ClientEmail  string  `db:"client_email"`
	ClientPhone  *string `db:"client_phone"`
}
