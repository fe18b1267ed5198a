package usecase

import (
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/extauth"
	"finance-tracker/pkg/mailer"
	"finance-tracker/pkg/token"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles every use case the HTTP layer depends on.
type Service struct {
	Auth       AuthService
	User       UserService
	Expense    ExpenseService
	Settlement SettlementService
	Reminder   ReminderService
	Export     ExportService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	tokens := token.NewManager(config.JWT, config.App.Environment, log)
	mail := mailer.New(config.Email, log)
	linker := NewUserLinker(repo.User, log)

	// A nil *extauth.Client must not become a non-nil interface value.
	var external ExternalVerifier
	if client := extauth.NewClient(config.ExternalAuth, log); client != nil {
		external = client
	}

	return &Service{
		Auth:       NewAuthService(repo, linker, tokens, external, mail, config, log),
		User:       NewUserService(repo.User, log),
		Expense:    NewExpenseService(repo.Expense, log),
		Settlement: NewSettlementService(repo.Settlement, log),
		Reminder:   NewReminderService(repo.Reminder, log),
		Export:     NewExportService(repo.Expense, log),
	}
}
