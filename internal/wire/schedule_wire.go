package wire

import (
	"barber-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireSchedule mounts the owner's weekly hours and the disabled-slot routes.
// Disabled slots are the same records as /api/bookings/blocks.
func wireSchedule(r chi.Router, scheduleHandler *adaptor.ScheduleHandler, blockHandler *adaptor.BlockHandler, g guards) {
	r.Route("/api/schedule", func(r chi.Router) {
		r.Use(g.auth, g.owner)

		r.Get("/owner-schedule", scheduleHandler.GetOwnerSchedule)
		r.Put("/owner-schedule", scheduleHandler.UpsertOwnerSchedule)

		r.Get("/disabled-slots", blockHandler.GetUpcoming)
		r.Post("/disabled-slots", blockHandler.CreateDisabledRange)
		r.Delete("/disabled-slots/{id}", blockHandler.DeleteBlock)
	})
}
