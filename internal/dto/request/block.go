package request

// CreateOwnerBlockRequest blocks part of one business day, or all of it.
type CreateOwnerBlockRequest struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime *string `json:"startTime,omitempty" validate:"omitempty,clock"`
	EndTime   *string `json:"endTime,omitempty" validate:"omitempty,clock"`
	FullDay   bool    `json:"fullDay"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// CreateDisabledRangeRequest blocks an arbitrary span given as two instants.
type CreateDisabledRangeRequest struct {
	StartTime string  `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string  `json:"endTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}
