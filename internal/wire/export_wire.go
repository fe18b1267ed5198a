package wire

import (
	"net/http"

	"finance-tracker/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireExport(r chi.Router, exportHandler *adaptor.ExportHandler, auth func(http.Handler) http.Handler) {
	// GET /api/export/expenses?format=csv|json|pdf
	r.With(auth).Get("/api/export/expenses", exportHandler.ExportExpenses)
}
