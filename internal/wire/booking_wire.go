package wire

import (
	"barber-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, blockHandler *adaptor.BlockHandler, g guards) {
	r.Route("/api/bookings", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/available-slots", bookingHandler.GetAvailableSlots)

		// ==================== CLIENT ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.With(g.rateLimit).Post("/", bookingHandler.CreateBooking)
			r.Get("/me", bookingHandler.GetMyBookings)
			r.Patch("/me/{id}/cancel", bookingHandler.CancelMyBooking)
		})

		// ==================== OWNER ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth, g.owner)

			r.Get("/owner", bookingHandler.GetOwnerBookings)
			r.Patch("/{id}/status", bookingHandler.UpdateBookingStatus)

			r.Get("/blocks", blockHandler.GetBlocks)
			r.Post("/blocks", blockHandler.CreateOwnerBlock)
			r.Delete("/blocks/{id}", blockHandler.DeleteBlock)
		})
	})
}
