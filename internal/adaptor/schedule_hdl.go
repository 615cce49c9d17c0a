package adaptor

import (
	"net/http"

	"barber-booking/internal/dto/request"
	"barber-booking/internal/usecase"
	"barber-booking/pkg/utils"

	"go.uber.org/zap"
)

type ScheduleHandler struct {
	service usecase.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "schedule")),
	}
}

// GetOwnerSchedule handles GET /api/schedule/owner-schedule
func (h *ScheduleHandler) GetOwnerSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.GetOwnerSchedule(r.Context())
	if err != nil {
		respondError(w, h.log, err, "get owner schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// UpsertOwnerSchedule handles PUT /api/schedule/owner-schedule
func (h *ScheduleHandler) UpsertOwnerSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertOwnerScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedule, err := h.service.UpsertOwnerSchedule(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "save owner schedule")
		return
	}

	utils.ResponseSuccess(w, "Schedule saved", schedule)
}
