package adaptor

import (
	"errors"
	"net/http"
	"strconv"

	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Expense    *ExpenseHandler
	Settlement *SettlementHandler
	Reminder   *ReminderHandler
	Export     *ExportHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(service.Auth, log),
		User:       NewUserHandler(service.User, log),
		Expense:    NewExpenseHandler(service.Expense, log),
		Settlement: NewSettlementHandler(service.Settlement, log),
		Reminder:   NewReminderHandler(service.Reminder, log),
		Export:     NewExportHandler(service.Export, log),
	}
}

// handleServiceError maps usecase sentinels to HTTP responses; every handler
// funnels service failures through here.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrNameRequired),
		errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrOTPInvalidOrExpired):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrOTPOnlyAccount),
		errors.Is(err, usecase.ErrUnauthenticated):
		log.Warn(operation+" unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrUnavailable):
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Service temporarily unavailable")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// userIDFromContext pulls the authenticated user id; the auth middleware
// guarantees it on protected routes.
func userIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// paginationFromQuery parses ?page= and ?per_page= with sane defaults.
func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return &request.PaginatedRequest{Page: page, PerPage: perPage}
}
