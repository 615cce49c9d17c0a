package adaptor

import (
	"net/http"

	"barber-booking/internal/dto/request"
	"barber-booking/internal/usecase"
	"barber-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BlockHandler manages owner blocks. Every route is owner only.
type BlockHandler struct {
	service usecase.BlockService
	log     *zap.Logger
}

func NewBlockHandler(service usecase.BlockService, log *zap.Logger) *BlockHandler {
	return &BlockHandler{
		service: service,
		log:     log.With(zap.String("handler", "block")),
	}
}

// GetBlocks handles GET /api/bookings/blocks?date=. Without a date it lists
// every block that has not ended yet.
func (h *BlockHandler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.GetUpcoming(w, r)
		return
	}

	blocks, err := h.service.GetBlocksForDate(r.Context(), date)
	if err != nil {
		respondError(w, h.log, err, "get blocks")
		return
	}

	utils.ResponseSuccess(w, "success", blocks)
}

// GetUpcoming handles GET /api/schedule/disabled-slots
func (h *BlockHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.GetUpcomingBlocks(r.Context())
	if err != nil {
		respondError(w, h.log, err, "get upcoming blocks")
		return
	}

	utils.ResponseSuccess(w, "success", blocks)
}

// CreateOwnerBlock handles POST /api/bookings/blocks
func (h *BlockHandler) CreateOwnerBlock(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOwnerBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	block, err := h.service.CreateOwnerBlock(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create block")
		return
	}

	utils.ResponseCreated(w, "Block created successfully", block)
}

// CreateDisabledRange handles POST /api/schedule/disabled-slots
func (h *BlockHandler) CreateDisabledRange(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDisabledRangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	block, err := h.service.CreateDisabledRange(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create disabled range")
		return
	}

	utils.ResponseCreated(w, "Disabled range created successfully", block)
}

// DeleteBlock handles DELETE /api/bookings/blocks/{id} and /api/schedule/disabled-slots/{id}
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBlock(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete block")
		return
	}

	utils.ResponseSuccess(w, "Block deleted successfully", nil)
}
