package response

import (
	"time"

	"finance-tracker/internal/data/entity"
)

type SettlementResponse struct {
	ID           string     `json:"id"`
	Counterparty string     `json:"counterparty"`
	Direction    string     `json:"direction"`
	Amount       float64    `json:"amount"`
	Note         *string    `json:"note,omitempty"`
	Settled      bool       `json:"settled"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func SettlementToResponse(settlement *entity.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:           settlement.ID.String(),
		Counterparty: settlement.Counterparty,
		Direction:    string(settlement.Direction),
		Amount:       settlement.Amount,
		Note:         settlement.Note,
		Settled:      settlement.Settled,
		SettledAt:    settlement.SettledAt,
		CreatedAt:    settlement.CreatedAt,
	}
}
