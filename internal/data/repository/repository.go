package repository

import (
	"errors"

	"finance-tracker/pkg/database"

	"go.uber.org/zap"
)

// ErrDuplicate wraps a unique-constraint violation. Services recover from it
// by re-reading the row that won the race.
var ErrDuplicate = errors.New("duplicate record")

type Repository struct {
	User       UserRepository
	OTP        OTPRepository
	Expense    ExpenseRepository
	Settlement SettlementRepository
	Reminder   ReminderRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		OTP:        NewOTPRepository(db, log),
		Expense:    NewExpenseRepository(db, log),
		Settlement: NewSettlementRepository(db, log),
		Reminder:   NewReminderRepository(db, log),
	}
}
