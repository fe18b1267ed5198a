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

type ReminderHandler struct {
	service usecase.ReminderService
	log     *zap.Logger
}

func NewReminderHandler(service usecase.ReminderService, log *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req request.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reminder")
		return
	}

	utils.ResponseCreated(w, "Reminder created", response)
}

// GetByID handles GET /api/reminders/{id}
func (h *ReminderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get reminder")
		return
	}

	utils.ResponseSuccess(w, "Reminder retrieved", response)
}

// List handles GET /api/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.List(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list reminders")
		return
	}

	utils.ResponseSuccess(w, "Reminders retrieved", response)
}

// Due handles GET /api/reminders/due
func (h *ReminderHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.Due(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list due reminders")
		return
	}

	utils.ResponseSuccess(w, "Due reminders retrieved", response)
}

// Update handles PUT /api/reminders/{id}
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req request.ReminderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update reminder")
		return
	}

	utils.ResponseSuccess(w, "Reminder updated", response)
}

// Delete handles DELETE /api/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete reminder")
		return
	}

	utils.ResponseSuccess(w, "Reminder deleted", nil)
}

// MarkNotified handles POST /api/reminders/{id}/notified
func (h *ReminderHandler) MarkNotified(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.MarkNotified(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "mark reminder notified")
		return
	}

	utils.ResponseSuccess(w, "Reminder marked notified", response)
}
