package entity

// User is the canonical account record every authentication path resolves to.
// At least one of PasswordHash, OTPOnly, or ExternalID must provide a usable
// login path; rows are never created without one.
type User struct {
	Base
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	PasswordHash *string `db:"password_hash"`
	ExternalID   *string `db:"external_id"`
	OTPOnly      bool    `db:"otp_only"`
}

// HasPassword reports whether the password login path is usable.
func (u *User) HasPassword() bool {
	return !u.OTPOnly && u.PasswordHash != nil && *u.PasswordHash != ""
}
