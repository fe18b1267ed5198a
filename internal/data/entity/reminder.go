package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is polled by clients; Notified flips once via a conditional
// update so re-entrant polling cannot notify twice.
type Reminder struct {
	Base
	UserID     uuid.UUID  `db:"user_id"`
	Title      string     `db:"title"`
	Note       *string    `db:"note"`
	DueAt      time.Time  `db:"due_at"`
	Notified   bool       `db:"notified"`
	NotifiedAt *time.Time `db:"notified_at"`
}
