package entity

import (
	"time"

	"github.com/google/uuid"
)

type SettlementDirection string

const (
	DirectionOwedToMe SettlementDirection = "owed_to_me"
	DirectionIOwe     SettlementDirection = "i_owe"
)

// Settlement tracks an outstanding balance with another person.
type Settlement struct {
	Base
	UserID       uuid.UUID           `db:"user_id"`
	Counterparty string              `db:"counterparty"`
	Direction    SettlementDirection `db:"direction"`
	Amount       float64             `db:"amount"`
	Note         *string             `db:"note"`
	Settled      bool                `db:"settled"`
	SettledAt    *time.Time          `db:"settled_at"`
}
