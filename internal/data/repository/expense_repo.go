package repository

import (
	"context"
	"fmt"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Expense, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Expense, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type expenseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewExpenseRepository(db database.PgxIface, log *zap.Logger) ExpenseRepository {
	return &expenseRepository{
		db:  db,
		log: log.With(zap.String("repository", "expense")),
	}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, amount, category, note, spent_at,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.UserID,
		expense.Amount,
		expense.Category,
		expense.Note,
		expense.SpentAt,
		expense.CreatedAt,
		expense.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create expense",
			zap.Error(err),
			zap.String("user_id", expense.UserID.String()),
		)
		return fmt.Errorf("create expense: %w", err)
	}

	return nil
}

func (r *expenseRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Expense, error) {
	query := `
		SELECT id, user_id, amount, category, note, spent_at,
		       created_at, updated_at, deleted_at
		FROM expenses
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var expense entity.Expense
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Amount,
		&expense.Category,
		&expense.Note,
		&expense.SpentAt,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find expense by ID",
			zap.Error(err),
			zap.String("expense_id", id.String()),
		)
		return nil, fmt.Errorf("find expense %s: %w", id.String(), err)
	}

	return &expense, nil
}

func (r *expenseRepository) FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT id, user_id, amount, category, note, spent_at,
		       created_at, updated_at
		FROM expenses
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY spent_at DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get expenses",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find expenses for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		var expense entity.Expense
		err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.Amount,
			&expense.Category,
			&expense.Note,
			&expense.SpentAt,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		expenses = append(expenses, &expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense rows: %w", err)
	}

	return expenses, nil
}

func (r *expenseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND deleted_at IS NULL`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count expenses",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count expenses for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $3, category = $4, note = $5, spent_at = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.UserID,
		expense.Amount,
		expense.Category,
		expense.Note,
		expense.SpentAt,
		expense.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update expense",
			zap.Error(err),
			zap.String("expense_id", expense.ID.String()),
		)
		return fmt.Errorf("update expense %s: %w", expense.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense %s not found", expense.ID.String())
	}

	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE expenses SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to delete expense",
			zap.Error(err),
			zap.String("expense_id", id.String()),
		)
		return fmt.Errorf("delete expense %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense %s not found", id.String())
	}

	return nil
}
