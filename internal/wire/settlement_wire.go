package wire

import (
	"net/http"

	"finance-tracker/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSettlement(r chi.Router, settlementHandler *adaptor.SettlementHandler, auth func(http.Handler) http.Handler) {
	r.With(auth).Route("/api/settlements", func(r chi.Router) {
		r.Post("/", settlementHandler.Create)
		r.Get("/", settlementHandler.List)
		r.Get("/{id}", settlementHandler.GetByID)
		r.Put("/{id}", settlementHandler.Update)
		r.Delete("/{id}", settlementHandler.Delete)
		r.Post("/{id}/settle", settlementHandler.Settle)
	})
}
