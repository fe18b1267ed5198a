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

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindValid(ctx context.Context, email, code string) (*entity.OTP, error)
	Consume(ctx context.Context, otpID uuid.UUID) (bool, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, email, code, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.Email,
		otp.Code,
		otp.ExpiresAt,
		otp.IsUsed,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	return nil
}

// FindValid returns the newest unused, unexpired code matching email+code.
func (r *otpRepository) FindValid(ctx context.Context, email, code string) (*entity.OTP, error) {
	query := `
		SELECT id, email, code, expires_at, is_used, created_at
		FROM otps
		WHERE LOWER(email) = LOWER($1)
		  AND code = $2
		  AND is_used = false
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, email, code).Scan(
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.IsUsed,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find valid OTP for %s: %w", email, err)
	}

	return &otp, nil
}

// Consume marks the code used if and only if it is still unused and
// unexpired. The conditional update is what makes single-use hold under
// concurrent verification attempts: exactly one caller sees true.
func (r *otpRepository) Consume(ctx context.Context, otpID uuid.UUID) (bool, error) {
	query := `
		UPDATE otps
		SET is_used = true
		WHERE id = $1 AND is_used = false AND expires_at > NOW()
	`

	result, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return false, fmt.Errorf("consume OTP %s: %w", otpID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteByEmail removes outstanding codes; called on each new issuance so
// only the latest code is ever valid.
func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM otps WHERE LOWER(email) = LOWER($1)`

	_, err := r.db.Exec(ctx, query, email)
	if err != nil {
		r.log.Error("Failed to delete OTPs",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("delete OTPs for %s: %w", email, err)
	}

	return nil
}
