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

type ExpenseHandler struct {
	service usecase.ExpenseService
	log     *zap.Logger
}

func NewExpenseHandler(service usecase.ExpenseService, log *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req request.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create expense")
		return
	}

	utils.ResponseCreated(w, "Expense created", response)
}

// GetByID handles GET /api/expenses/{id}
func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get expense")
		return
	}

	utils.ResponseSuccess(w, "Expense retrieved", response)
}

// List handles GET /api/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	response, err := h.service.List(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list expenses")
		return
	}

	utils.ResponseSuccess(w, "Expenses retrieved", response)
}

// Update handles PUT /api/expenses/{id}
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req request.ExpenseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update expense")
		return
	}

	utils.ResponseSuccess(w, "Expense updated", response)
}

// Delete handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete expense")
		return
	}

	utils.ResponseSuccess(w, "Expense deleted", nil)
}
