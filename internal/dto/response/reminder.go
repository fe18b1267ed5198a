package response

import (
	"time"

	"finance-tracker/internal/data/entity"
)

type ReminderResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Note       *string    `json:"note,omitempty"`
	DueAt      time.Time  `json:"due_at"`
	Notified   bool       `json:"notified"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func ReminderToResponse(reminder *entity.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:         reminder.ID.String(),
		Title:      reminder.Title,
		Note:       reminder.Note,
		DueAt:      reminder.DueAt,
		Notified:   reminder.Notified,
		NotifiedAt: reminder.NotifiedAt,
		CreatedAt:  reminder.CreatedAt,
	}
}
