package repository

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *entity.Reminder) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Reminder, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reminder, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	FindDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.Reminder, error)
	Update(ctx context.Context, reminder *entity.Reminder) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	MarkNotified(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type reminderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReminderRepository(db database.PgxIface, log *zap.Logger) ReminderRepository {
	return &reminderRepository{
		db:  db,
		log: log.With(zap.String("repository", "reminder")),
	}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, title, note, due_at, notified,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Title,
		reminder.Note,
		reminder.DueAt,
		reminder.Notified,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reminder",
			zap.Error(err),
			zap.String("user_id", reminder.UserID.String()),
		)
		return fmt.Errorf("create reminder: %w", err)
	}

	return nil
}

func (r *reminderRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Reminder, error) {
	query := `
		SELECT id, user_id, title, note, due_at, notified, notified_at,
		       created_at, updated_at, deleted_at
		FROM reminders
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var reminder entity.Reminder
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.Title,
		&reminder.Note,
		&reminder.DueAt,
		&reminder.Notified,
		&reminder.NotifiedAt,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
		&reminder.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reminder by ID",
			zap.Error(err),
			zap.String("reminder_id", id.String()),
		)
		return nil, fmt.Errorf("find reminder %s: %w", id.String(), err)
	}

	return &reminder, nil
}

func (r *reminderRepository) FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reminder, error) {
	query := `
		SELECT id, user_id, title, note, due_at, notified, notified_at,
		       created_at, updated_at
		FROM reminders
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY due_at ASC
		LIMIT $2 OFFSET $3
	`

	return r.scanMany(ctx, query, userID, limit, offset)
}

func (r *reminderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reminders WHERE user_id = $1 AND deleted_at IS NULL`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reminders",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reminders for user %s: %w", userID.String(), err)
	}

	return count, nil
}

// FindDue returns reminders that are due and not yet notified; clients poll
// this and then call MarkNotified.
func (r *reminderRepository) FindDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.Reminder, error) {
	query := `
		SELECT id, user_id, title, note, due_at, notified, notified_at,
		       created_at, updated_at
		FROM reminders
		WHERE user_id = $1 AND due_at <= $2 AND notified = false
		  AND deleted_at IS NULL
		ORDER BY due_at ASC
		LIMIT $3 OFFSET $4
	`

	return r.scanMany(ctx, query, userID, now, 100, 0)
}

func (r *reminderRepository) scanMany(ctx context.Context, query string, args ...any) ([]*entity.Reminder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get reminders", zap.Error(err))
		return nil, fmt.Errorf("find reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*entity.Reminder
	for rows.Next() {
		var reminder entity.Reminder
		err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.Title,
			&reminder.Note,
			&reminder.DueAt,
			&reminder.Notified,
			&reminder.NotifiedAt,
			&reminder.CreatedAt,
			&reminder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reminder row: %w", err)
		}
		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder rows: %w", err)
	}

	return reminders, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *entity.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $3, note = $4, due_at = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Title,
		reminder.Note,
		reminder.DueAt,
		reminder.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update reminder",
			zap.Error(err),
			zap.String("reminder_id", reminder.ID.String()),
		)
		return fmt.Errorf("update reminder %s: %w", reminder.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder %s not found", reminder.ID.String())
	}

	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE reminders SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to delete reminder",
			zap.Error(err),
			zap.String("reminder_id", id.String()),
		)
		return fmt.Errorf("delete reminder %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder %s not found", id.String())
	}

	return nil
}

// MarkNotified flips the notified flag under the same conditional-update
// discipline as OTP consumption, so re-entrant polling cannot notify twice.
func (r *reminderRepository) MarkNotified(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE reminders
		SET notified = true, notified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND notified = false AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to mark reminder notified",
			zap.Error(err),
			zap.String("reminder_id", id.String()),
		)
		return false, fmt.Errorf("mark reminder %s notified: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
