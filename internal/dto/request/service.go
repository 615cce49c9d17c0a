package request

// DurationMin may be omitted; any value other than the fixed effective
// duration is rejected.
type CreateServiceRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	DurationMin *int    `json:"durationMin,omitempty"`
	Price       float64 `json:"price" validate:"min=0"`
	Active      *bool   `json:"active,omitempty"`
}

// UpdateServiceRequest changes only the fields that are set. Once a service
// has bookings only Price and Active may change.
type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	DurationMin *int     `json:"durationMin,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Active      *bool    `json:"active,omitempty"`
}
