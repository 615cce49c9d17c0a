package wire

import (
	"barber-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireStats(r chi.Router, statsHandler *adaptor.StatsHandler, g guards) {
	r.With(g.auth, g.owner).Get("/api/stats", statsHandler.GetStats)
}
