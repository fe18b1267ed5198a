package usecase

import "errors"

// Sentinel errors for all services; handlers map them to HTTP status codes
// with errors.Is. Authentication failures stay generic on purpose: responses
// never distinguish expired from tampered tokens, or missing from wrong OTP
// codes.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthenticated     = errors.New("invalid or expired token")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrOTPOnlyAccount      = errors.New("account has no password, use OTP login")
	ErrOTPInvalidOrExpired = errors.New("invalid or expired code")
	ErrEmailTaken          = errors.New("email already registered")
	ErrNameRequired        = errors.New("name is required")
	ErrNotFound            = errors.New("not found")
	ErrUnavailable         = errors.New("service temporarily unavailable")
)
