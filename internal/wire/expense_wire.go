package wire

import (
	"net/http"

	"finance-tracker/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireExpense(r chi.Router, expenseHandler *adaptor.ExpenseHandler, auth func(http.Handler) http.Handler) {
	r.With(auth).Route("/api/expenses", func(r chi.Router) {
		r.Post("/", expenseHandler.Create)
		r.Get("/", expenseHandler.List) // GET /api/expenses?page=1&per_page=10
		r.Get("/{id}", expenseHandler.GetByID)
		r.Put("/{id}", expenseHandler.Update)
		r.Delete("/{id}", expenseHandler.Delete)
	})
}
