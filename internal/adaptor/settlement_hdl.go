package adaptor

import (
	"encoding/json"
	"net/http"

	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SettlementHandler struct {
	service usecase.SettlementService
	log     *zap.Logger
}

func NewSettlementHandler(service usecase.SettlementService, log *zap.Logger) *SettlementHandler {
	return &SettlementHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/settlements
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req request.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create settlement")
		return
	}

	utils.ResponseCreated(w, "Settlement created", response)
}

// GetByID handles GET /api/settlements/{id}
func (h *SettlementHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get settlement")
		return
	}

	utils.ResponseSuccess(w, "Settlement retrieved", response)
}

// List handles GET /api/settlements
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.List(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list settlements")
		return
	}

	utils.ResponseSuccess(w, "Settlements retrieved", response)
}

// Update handles PUT /api/settlements/{id}
func (h *SettlementHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req request.SettlementUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update settlement")
		return
	}

	utils.ResponseSuccess(w, "Settlement updated", response)
}

// Delete handles DELETE /api/settlements/{id}
func (h *SettlementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete settlement")
		return
	}

	utils.ResponseSuccess(w, "Settlement deleted", nil)
}

// Settle handles POST /api/settlements/{id}/settle
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.Settle(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "settle")
		return
	}

	utils.ResponseSuccess(w, "Settlement settled", response)
}
