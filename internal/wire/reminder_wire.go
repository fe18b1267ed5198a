package wire

import (
	"net/http"

	"finance-tracker/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReminder(r chi.Router, reminderHandler *adaptor.ReminderHandler, auth func(http.Handler) http.Handler) {
	r.With(auth).Route("/api/reminders", func(r chi.Router) {
		r.Post("/", reminderHandler.Create)
		r.Get("/", reminderHandler.List)
		r.Get("/due", reminderHandler.Due) // must register before /{id}
		r.Get("/{id}", reminderHandler.GetByID)
		r.Put("/{id}", reminderHandler.Update)
		r.Delete("/{id}", reminderHandler.Delete)
		r.Post("/{id}/notified", reminderHandler.MarkNotified)
	})
}
