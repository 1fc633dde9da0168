package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	FindValid(ctx context.Context, email, code string, purpose entity.CodePurpose) (*entity.VerificationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	InvalidateAll(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) error
}

type verificationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVerificationCodeRepository(db database.PgxIface, log *zap.Logger) VerificationCodeRepository {
	return &verificationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "verification_code")),
	}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, email, code, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.Email,
		code.Code,
		code.Purpose,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create verification code",
			zap.Error(err),
			zap.String("email", code.Email),
			zap.String("purpose", string(code.Purpose)),
		)
		return fmt.Errorf("create %s code for %s: %w", code.Purpose, code.Email, err)
	}

	return nil
}

func (r *verificationCodeRepository) FindValid(ctx context.Context, email, code string, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	query := `
		SELECT id, user_id, email, code, purpose, expires_at, used_at, created_at
		FROM verification_codes
		WHERE LOWER(email) = LOWER($1)
		  AND code = $2
		  AND purpose = $3
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var vc entity.VerificationCode
	err := r.db.QueryRow(ctx, query, email, code, purpose).Scan(
		&vc.ID,
		&vc.UserID,
		&vc.Email,
		&vc.Code,
		&vc.Purpose,
		&vc.ExpiresAt,
		&vc.UsedAt,
		&vc.CreatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find verification code", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find %s code for %s: %w", purpose, email, err)
	}

	return &vc, nil
}

func (r *verificationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE verification_codes SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark code used", zap.Error(err), zap.String("code_id", id.String()))
		return fmt.Errorf("mark code %s used: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("code %s already used: %w", id, ErrNotAffected)
	}
	return nil
}

// InvalidateAll burns outstanding codes so only the newest one works.
func (r *verificationCodeRepository) InvalidateAll(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) error {
	query := `UPDATE verification_codes SET used_at = NOW() WHERE user_id = $1 AND purpose = $2 AND used_at IS NULL`

	if _, err := r.db.Exec(ctx, query, userID, purpose); err != nil {
		r.log.Error("Failed to invalidate codes", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("invalidate %s codes of %s: %w", purpose, userID, err)
	}
	return nil
}
