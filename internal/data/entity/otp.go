package entity

import (
	"time"
)

// OTP is a one-time login code emailed to a user. A code is consumable at
// most once: IsUsed flips true on the first successful verification and the
// row is dead afterwards regardless of expiry.
type OTP struct {
	BaseSimple
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}
