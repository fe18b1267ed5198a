// internal/wire/wire.go
package wire

import (
	"finance-tracker/internal/adaptor"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/middleware"
	"finance-tracker/pkg/utils"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, service, logger)

	return &App{
		Router: router,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Every protected route authenticates through the auth service: external
	// provider first when configured, then locally issued tokens.
	auth := middleware.Auth(service.Auth, logger)

	// Apply routes
	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, auth)
	wireExpense(r, handler.Expense, auth)
	wireSettlement(r, handler.Settlement, auth)
	wireReminder(r, handler.Reminder, auth)
	wireExport(r, handler.Export, auth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
