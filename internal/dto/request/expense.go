package request

type ExpenseRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Category string  `json:"category" validate:"required,min=1,max=50"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=500"`
	SpentAt  string  `json:"spent_at" validate:"required,datetime=2006-01-02"`
}

type ExpenseUpdateRequest struct {
	Amount   *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Category *string  `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Note     *string  `json:"note,omitempty" validate:"omitempty,max=500"`
	SpentAt  *string  `json:"spent_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
