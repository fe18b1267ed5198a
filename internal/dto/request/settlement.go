package request

type SettlementRequest struct {
	Counterparty string  `json:"counterparty" validate:"required,min=1,max=100"`
	Direction    string  `json:"direction" validate:"required,oneof=owed_to_me i_owe"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Note         *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type SettlementUpdateRequest struct {
	Counterparty *string  `json:"counterparty,omitempty" validate:"omitempty,min=1,max=100"`
	Direction    *string  `json:"direction,omitempty" validate:"omitempty,oneof=owed_to_me i_owe"`
	Amount       *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Note         *string  `json:"note,omitempty" validate:"omitempty,max=500"`
}
