package wire

import (
	"finance-tracker/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/otp/send", authHandler.SendOTP)
	r.Post("/api/otp/verify", authHandler.VerifyOTP)
}
