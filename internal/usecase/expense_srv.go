package usecase

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ExpenseService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.ExpenseRequest) (*response.ExpenseResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, expenseID string) (*response.ExpenseResponse, error)
	List(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ExpenseResponse], error)
	Update(ctx context.Context, userID uuid.UUID, expenseID string, req *request.ExpenseUpdateRequest) (*response.ExpenseResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, expenseID string) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
	log      *zap.Logger
}

func NewExpenseService(expenses repository.ExpenseRepository, log *zap.Logger) ExpenseService {
	return &expenseService{
		expenses: expenses,
		log:      log.With(zap.String("service", "expense")),
	}
}

func (s *expenseService) Create(ctx context.Context, userID uuid.UUID, req *request.ExpenseRequest) (*response.ExpenseResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	spentAt, err := time.Parse(dateLayout, req.SpentAt)
	if err != nil {
		return nil, fmt.Errorf("%w: spent_at must be YYYY-MM-DD", ErrInvalidInput)
	}

	now := time.Now()
	expense := &entity.Expense{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   userID,
		Amount:   req.Amount,
		Category: req.Category,
		Note:     req.Note,
		SpentAt:  spentAt,
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		s.log.Error("Failed to create expense", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("create expense: %w", ErrUnavailable)
	}

	s.log.Info("Expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("amount", expense.Amount),
	)

	resp := response.ExpenseToResponse(expense)
	return &resp, nil
}

func (s *expenseService) GetByID(ctx context.Context, userID uuid.UUID, expenseID string) (*response.ExpenseResponse, error) {
	id, err := uuid.Parse(expenseID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.expenses.FindByID(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to find expense", zap.Error(err), zap.String("expense_id", expenseID))
		return nil, fmt.Errorf("find expense: %w", ErrUnavailable)
	}
	if expense == nil {
		return nil, ErrNotFound
	}

	resp := response.ExpenseToResponse(expense)
	return &resp, nil
}

func (s *expenseService) List(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ExpenseResponse], error) {
	expenses, err := s.expenses.FindAllByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list expenses", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list expenses: %w", ErrUnavailable)
	}

	total, err := s.expenses.CountByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count expenses", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("count expenses: %w", ErrUnavailable)
	}

	items := make([]response.ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		items[i] = response.ExpenseToResponse(expense)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *expenseService) Update(ctx context.Context, userID uuid.UUID, expenseID string, req *request.ExpenseUpdateRequest) (*response.ExpenseResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(expenseID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.expenses.FindByID(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to find expense for update", zap.Error(err), zap.String("expense_id", expenseID))
		return nil, fmt.Errorf("find expense: %w", ErrUnavailable)
	}
	if expense == nil {
		return nil, ErrNotFound
	}

	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Note != nil {
		expense.Note = req.Note
	}
	if req.SpentAt != nil {
		spentAt, err := time.Parse(dateLayout, *req.SpentAt)
		if err != nil {
			return nil, fmt.Errorf("%w: spent_at must be YYYY-MM-DD", ErrInvalidInput)
		}
		expense.SpentAt = spentAt
	}
	expense.UpdatedAt = time.Now()

	if err := s.expenses.Update(ctx, expense); err != nil {
		s.log.Error("Failed to update expense", zap.Error(err), zap.String("expense_id", expenseID))
		return nil, fmt.Errorf("update expense: %w", ErrUnavailable)
	}

	resp := response.ExpenseToResponse(expense)
	return &resp, nil
}

func (s *expenseService) Delete(ctx context.Context, userID uuid.UUID, expenseID string) error {
	id, err := uuid.Parse(expenseID)
	if err != nil {
		return fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.expenses.FindByID(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("find expense: %w", ErrUnavailable)
	}
	if expense == nil {
		return ErrNotFound
	}

	if err := s.expenses.Delete(ctx, id, userID); err != nil {
		s.log.Error("Failed to delete expense", zap.Error(err), zap.String("expense_id", expenseID))
		return fmt.Errorf("delete expense: %w", ErrUnavailable)
	}

	s.log.Info("Expense deleted",
		zap.String("expense_id", expenseID),
		zap.String("user_id", userID.String()),
	)

	return nil
}
