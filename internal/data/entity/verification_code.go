package entity

import (
	"time"

	"github.com/google/uuid"
)

type CodePurpose string

const (
	PurposeEmailVerification CodePurpose = "EMAIL_VERIFICATION"
	PurposePasswordReset     CodePurpose = "PASSWORD_RESET"
)

// VerificationCode is a one-time code mailed to a user. Only its bcrypt hash is stored.
type VerificationCode struct {
	BaseSimple
	UserID    uuid.UUID   `db:"user_id"`
	CodeHash  string      `db:"code_hash"`
	Purpose   CodePurpose `db:"purpose"`
	ExpiresAt time.Time   `db:"expires_at"`
	UsedAt    *time.Time  `db:"used_at"`
}
