package entity

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	Base
	UserID   uuid.UUID `db:"user_id"`
	Amount   float64   `db:"amount"`
	Category string    `db:"category"`
	Note     *string   `db:"note"`
	SpentAt  time.Time `db:"spent_at"`
}
