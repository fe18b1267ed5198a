package adaptor

import (
	"bytes"
	"net/http"

	"finance-tracker/internal/usecase"

	"go.uber.org/zap"
)

type ExportHandler struct {
	service usecase.ExportService
	log     *zap.Logger
}

func NewExportHandler(service usecase.ExportService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		log:     log,
	}
}

// ExportExpenses handles GET /api/export/expenses?format=csv|json|pdf
func (h *ExportHandler) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	// Buffer the document so a mid-export failure still yields a clean JSON
	// error instead of a truncated body.
	var buf bytes.Buffer
	contentType, err := h.service.ExportExpenses(r.Context(), userID, format, &buf)
	if err != nil {
		handleServiceError(w, h.log, err, "export expenses")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("Failed to stream export", zap.Error(err))
	}
}
