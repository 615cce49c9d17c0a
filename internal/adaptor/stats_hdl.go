package adaptor

import (
	"net/http"

	"barber-booking/internal/dto/request"
	"barber-booking/internal/usecase"
	"barber-booking/pkg/utils"

	"go.uber.org/zap"
)

type StatsHandler struct {
	service usecase.StatsService
	log     *zap.Logger
}

func NewStatsHandler(service usecase.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log.With(zap.String("handler", "stats")),
	}
}

// GetStats handles GET /api/stats?from=&to= (owner only)
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	req := request.StatsRequest{
		From: optionalQuery(r, "from"),
		To:   optionalQuery(r, "to"),
	}

	stats, err := h.service.GetStats(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "get stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
