package adaptor

import (
	"net/http"

	"barber-booking/internal/dto/request"
	"barber-booking/internal/usecase"
	"barber-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service      usecase.BookingService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, availability usecase.AvailabilityService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:      service,
		availability: availability,
		log:          log.With(zap.String("handler", "booking")),
	}
}

// GetAvailableSlots handles GET /api/bookings/available-slots?date=YYYY-MM-DD (public)
func (h *BookingHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	req := request.AvailabilityRequest{
		Date:      r.URL.Query().Get("date"),
		ServiceID: optionalQuery(r, "serviceId"),
	}

	slots, err := h.availability.GetAvailableSlots(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created, waiting for confirmation", booking)
}

// GetMyBookings handles GET /api/bookings/me?status=
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	req := h.listRequest(r)
	bookings, err := h.service.GetMyBookings(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "get my bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelMyBooking handles PATCH /api/bookings/me/{id}/cancel
func (h *BookingHandler) CancelMyBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelMyBooking(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// ==================== OWNER METHODS ====================

// GetOwnerBookings handles GET /api/bookings/owner?date=&status= (owner only)
func (h *BookingHandler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	req := h.listRequest(r)
	bookings, err := h.service.GetOwnerBookings(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "get owner bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// UpdateBookingStatus handles PATCH /api/bookings/{id}/status (owner only)
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}

func (h *BookingHandler) listRequest(r *http.Request) request.BookingListRequest {
	return request.BookingListRequest{
		Date:             optionalQuery(r, "date"),
		Status:           optionalQuery(r, "status"),
		PaginatedRequest: pageQuery(r),
	}
}
