package response

import (
	"time"

	"finance-tracker/internal/data/entity"
)

type ExpenseResponse struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Note      *string   `json:"note,omitempty"`
	SpentAt   string    `json:"spent_at"`
	CreatedAt time.Time `json:"created_at"`
}

func ExpenseToResponse(expense *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        expense.ID.String(),
		Amount:    expense.Amount,
		Category:  expense.Category,
		Note:      expense.Note,
		SpentAt:   expense.SpentAt.Format("2006-01-02"),
		CreatedAt: expense.CreatedAt,
	}
}
