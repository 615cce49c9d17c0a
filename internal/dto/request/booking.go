package request

type AvailabilityRequest struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	ServiceID *string `json:"serviceId,omitempty" validate:"omitempty,uuid"`
}

type CreateBookingRequest struct {
	ServiceID string  `json:"serviceId" validate:"required,uuid"`
	StartTime string  `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// UpdateBookingStatusRequest leaves status checking to the booking engine so an
// unknown value surfaces as INVALID_STATUS.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookingListRequest struct {
	Date   *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status *string `json:"status,omitempty"`
	PaginatedRequest
}
