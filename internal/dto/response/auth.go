package response

import (
	"time"

	"finance-tracker/internal/data/entity"
)

type AuthResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	OTPOnly   bool      `json:"otp_only"`
}

// OTPResponse reports the issued code's TTL. Code is only populated outside
// production when email delivery was not confirmed.
type OTPResponse struct {
	ExpiresIn int    `json:"expires_in"`
	Code      string `json:"code,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	OTPOnly   bool      `json:"otp_only"`
	Linked    bool      `json:"linked"`
	CreatedAt time.Time `json:"created_at"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		OTPOnly:   user.OTPOnly,
		Linked:    user.ExternalID != nil,
		CreatedAt: user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, token string, expiresAt time.Time) *AuthResponse {
	return &AuthResponse{
		UserID:    user.ID.String(),
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     user.Email,
		Name:      user.Name,
		OTPOnly:   user.OTPOnly,
	}
}
