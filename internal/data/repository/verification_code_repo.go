package repository

import (
	"context"
	"errors"
	"fmt"

	"barber-booking/internal/data/entity"
	"barber-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	FindLatestActive(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) (*entity.VerificationCode, error)
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
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
		INSERT INTO verification_codes (id, user_id, code_hash, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.Purpose,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create verification code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
			zap.String("purpose", string(code.Purpose)),
		)
		return fmt.Errorf("create %s code for %s: %w", code.Purpose, code.UserID, err)
	}

	return nil
}

// FindLatestActive returns the newest unused, unexpired code. Older codes are
// never accepted, so requesting a new code supersedes the previous one.
func (r *verificationCodeRepository) FindLatestActive(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	query := `
		SELECT id, user_id, code_hash, purpose, expires_at, used_at, created_at
		FROM verification_codes
		WHERE user_id = $1
		  AND purpose = $2
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code entity.VerificationCode
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID, purpose).Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.Purpose,
		&code.ExpiresAt,
		&code.UsedAt,
		&code.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find verification code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("purpose", string(purpose)),
		)
		return nil, fmt.Errorf("find %s code for %s: %w", purpose, userID, err)
	}

	return &code, nil
}

func (r *verificationCodeRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE verification_codes SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark code as used",
			zap.Error(err),
			zap.String("code_id", id.String()),
		)
		return fmt.Errorf("mark code %s as used: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark code %s as used: %w", id, ErrNotFound)
	}

	return nil
}

func (r *verificationCodeRepository) InvalidateAll(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) error {
	query := `
		UPDATE verification_codes
		SET used_at = NOW()
		WHERE user_id = $1 AND purpose = $2 AND used_at IS NULL
	`

	if _, err := database.Conn(ctx, r.db).Exec(ctx, query, userID, purpose); err != nil {
		r.log.Error("Failed to invalidate codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("invalidate %s codes for %s: %w", purpose, userID, err)
	}

	return nil
}
