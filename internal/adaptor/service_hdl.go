package adaptor

import (
	"net/http"

	"barber-booking/internal/dto/request"
	"barber-booking/internal/usecase"
	"barber-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServiceHandler exposes the catalog of bookable services.
type ServiceHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewServiceHandler(service usecase.CatalogService, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		service: service,
		log:     log.With(zap.String("handler", "service")),
	}
}

// ListServices handles GET /api/services (public, active only)
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAllServices handles GET /api/services/all (owner only)
func (h *ServiceHandler) ListAllServices(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *ServiceHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	services, err := h.service.ListServices(r.Context(), activeOnly)
	if err != nil {
		respondError(w, h.log, err, "list services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// GetService handles GET /api/services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get service")
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// CreateService handles POST /api/services (owner only)
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req request.CreateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, "Service created successfully", service)
}

// UpdateService handles PUT /api/services/{id} (owner only)
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.UpdateService(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "Service updated successfully", service)
}
