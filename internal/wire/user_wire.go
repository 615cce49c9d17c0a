package wire

import (
	"barber-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)
		r.Put("/me/password", userHandler.ChangePassword)

		// ==================== OWNER ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.owner)

			r.Get("/", userHandler.GetClients)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})
}
