package response

import (
	"time"

	"barber-booking/internal/data/entity"
)

type OwnerScheduleResponse struct {
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func OwnerScheduleToResponse(s *entity.OwnerSchedule) OwnerScheduleResponse {
	return OwnerScheduleResponse{
		Weekday:   s.Weekday,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Active:    s.Active,
		UpdatedAt: s.UpdatedAt,
	}
}
