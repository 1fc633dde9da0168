package entity

import (
	"time"

	"github.com/google/uuid"
)

type CodePurpose string

const (
	PurposeEmailVerification CodePurpose = "email_verification"
	PurposePasswordReset     CodePurpose = "password_reset"
)

// VerificationCode is a short numeric code mailed to the user.
type VerificationCode struct {
	BaseSimple
	UserID    uuid.UUID   `db:"user_id"`
	Email     string      `db:"email"`
	Code      string      `db:"code"`
	Purpose   CodePurpose `db:"purpose"`
	ExpiresAt time.Time   `db:"expires_at"`
	UsedAt    *time.Time  `db:"used_at"`
}
