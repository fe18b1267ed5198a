package middleware

import (
	"context"
	"net/http"
	"strings"

	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to a user id; the auth service
// implements it. Any error means the request is rejected with 401.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (uuid.UUID, error)
}

// Auth validates the Authorization header and stores the resolved user id
// and raw token in the request context. The header carries either
// "Bearer <token>" or the bare token string.
func Auth(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			if parts := strings.SplitN(token, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = strings.TrimSpace(parts[1])
			}
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			userID, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Warn("Rejected bearer token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
