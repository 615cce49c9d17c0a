package wire

import (
	"barber-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireService(r chi.Router, serviceHandler *adaptor.ServiceHandler, g guards) {
	r.Route("/api/services", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", serviceHandler.ListServices)
		r.Get("/{id}", serviceHandler.GetService)

		// ==================== OWNER ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth, g.owner)

			r.Get("/all", serviceHandler.ListAllServices)
			r.Post("/", serviceHandler.CreateService)
			r.Put("/{id}", serviceHandler.UpdateService)
		})
	})
}
