package response

import (
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/scheduling"
)

type SlotResponse struct {
	Period    scheduling.Period `json:"period"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Available bool              `json:"available"`
}

type BookingResponse struct {
	ID        string               `json:"id"`
	ClientID  string               `json:"clientId"`
	ServiceID string               `json:"serviceId"`
	StartTime time.Time            `json:"startTime"`
	EndTime   time.Time            `json:"endTime"`
	Status    entity.BookingStatus `json:"status"`
	Notes     *string              `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	Service   *BookingService      `json:"service,omitempty"`
	Client    *BookingClient       `json:"client,omitempty"`
}

type BookingService struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type BookingClient struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
}

type DisabledRangeResponse struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Instants are rendered in the business offset so clients see local wall time.
func SlotToResponse(s scheduling.Slot) SlotResponse {
	return SlotResponse{
		Period:    s.Period,
		StartTime: s.Start.In(scheduling.Location),
		EndTime:   s.End.In(scheduling.Location),
		Available: s.Available,
	}
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID.String(),
		ClientID:  b.ClientID.String(),
		ServiceID: b.ServiceID.String(),
		StartTime: b.StartTime.In(scheduling.Location),
		EndTime:   b.EndTime.In(scheduling.Location),
		Status:    b.Status,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
	}
}

func BookingDetailToResponse(d *entity.BookingDetail) BookingResponse {
	resp := BookingToResponse(&d.Booking)
	resp.Service = &BookingService{Name: d.ServiceName, Price: d.ServicePrice}
	resp.Client = &BookingClient{FullName: d.ClientName, Email: d.ClientEmail, Phone: d.ClientPhone}
	return resp
}

func DisabledRangeToResponse(r *entity.DisabledRange) DisabledRangeResponse {
	return DisabledRangeResponse{
		ID:        r.ID.String(),
		StartTime: r.StartTime.In(scheduling.Location),
		EndTime:   r.EndTime.In(scheduling.Location),
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
}
