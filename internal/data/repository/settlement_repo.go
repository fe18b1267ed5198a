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

type SettlementRepository interface {
	Create(ctx context.Context, settlement *entity.Settlement) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Settlement, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Settlement, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, settlement *entity.Settlement) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Settle(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type settlementRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSettlementRepository(db database.PgxIface, log *zap.Logger) SettlementRepository {
	return &settlementRepository{
		db:  db,
		log: log.With(zap.String("repository", "settlement")),
	}
}

func (r *settlementRepository) Create(ctx context.Context, settlement *entity.Settlement) error {
	query := `
		INSERT INTO settlements (id, user_id, counterparty, direction, amount,
		                         note, settled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		settlement.ID,
		settlement.UserID,
		settlement.Counterparty,
		settlement.Direction,
		settlement.Amount,
		settlement.Note,
		settlement.Settled,
		settlement.CreatedAt,
		settlement.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create settlement",
			zap.Error(err),
			zap.String("user_id", settlement.UserID.String()),
		)
		return fmt.Errorf("create settlement: %w", err)
	}

	return nil
}

func (r *settlementRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Settlement, error) {
	query := `
		SELECT id, user_id, counterparty, direction, amount, note, settled,
		       settled_at, created_at, updated_at, deleted_at
		FROM settlements
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var settlement entity.Settlement
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&settlement.ID,
		&settlement.UserID,
		&settlement.Counterparty,
		&settlement.Direction,
		&settlement.Amount,
		&settlement.Note,
		&settlement.Settled,
		&settlement.SettledAt,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
		&settlement.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find settlement by ID",
			zap.Error(err),
			zap.String("settlement_id", id.String()),
		)
		return nil, fmt.Errorf("find settlement %s: %w", id.String(), err)
	}

	return &settlement, nil
}

func (r *settlementRepository) FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Settlement, error) {
	query := `
		SELECT id, user_id, counterparty, direction, amount, note, settled,
		       settled_at, created_at, updated_at
		FROM settlements
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get settlements",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find settlements for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var settlements []*entity.Settlement
	for rows.Next() {
		var settlement entity.Settlement
		err := rows.Scan(
			&settlement.ID,
			&settlement.UserID,
			&settlement.Counterparty,
			&settlement.Direction,
			&settlement.Amount,
			&settlement.Note,
			&settlement.Settled,
			&settlement.SettledAt,
			&settlement.CreatedAt,
			&settlement.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan settlement row: %w", err)
		}
		settlements = append(settlements, &settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement rows: %w", err)
	}

	return settlements, nil
}

func (r *settlementRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM settlements WHERE user_id = $1 AND deleted_at IS NULL`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count settlements",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count settlements for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *settlementRepository) Update(ctx context.Context, settlement *entity.Settlement) error {
	query := `
		UPDATE settlements
		SET counterparty = $3, direction = $4, amount = $5, note = $6,
		    updated_at = $7
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		settlement.ID,
		settlement.UserID,
		settlement.Counterparty,
		settlement.Direction,
		settlement.Amount,
		settlement.Note,
		settlement.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update settlement",
			zap.Error(err),
			zap.String("settlement_id", settlement.ID.String()),
		)
		return fmt.Errorf("update settlement %s: %w", settlement.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("settlement %s not found", settlement.ID.String())
	}

	return nil
}

func (r *settlementRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE settlements SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to delete settlement",
			zap.Error(err),
			zap.String("settlement_id", id.String()),
		)
		return fmt.Errorf("delete settlement %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("settlement %s not found", id.String())
	}

	return nil
}

// Settle flips the settled flag once; a second call reports false.
func (r *settlementRepository) Settle(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE settlements
		SET settled = true, settled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND settled = false AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to settle settlement",
			zap.Error(err),
			zap.String("settlement_id", id.String()),
		)
		return false, fmt.Errorf("settle settlement %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
