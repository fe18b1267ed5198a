package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuthenticator struct {
	userID uuid.UUID
	err    error
	got    string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, bearerToken string) (uuid.UUID, error) {
	s.got = bearerToken
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.userID, nil
}

func runAuth(t *testing.T, auth Authenticator, header string) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	var captured context.Context
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	Auth(auth, zap.NewNop())(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthMissingHeader(t *testing.T) {
	rec, _ := runAuth(t, &stubAuthenticator{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runAuth(t, &stubAuthenticator{}, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRawTokenWithoutScheme(t *testing.T) {
	// The header may carry the bare token; it goes to the authenticator
	// unchanged instead of being rejected on format.
	stub := &stubAuthenticator{userID: uuid.New()}
	rec, ctx := runAuth(t, stub, "raw-token-without-scheme")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "raw-token-without-scheme", stub.got)

	got, ok := utils.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, stub.userID, got)
}

func TestAuthRejectedToken(t *testing.T) {
	rec, _ := runAuth(t, &stubAuthenticator{err: errors.New("nope")}, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSetsContext(t *testing.T) {
	userID := uuid.New()
	rec, ctx := runAuth(t, &stubAuthenticator{userID: userID}, "Bearer good-token")
	require.Equal(t, http.StatusOK, rec.Code)

	got, ok := utils.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, userID, got)

	tok, ok := utils.GetTokenFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "good-token", tok)
}

func TestAuthLowercaseBearer(t *testing.T) {
	userID := uuid.New()
	rec, _ := runAuth(t, &stubAuthenticator{userID: userID}, "bearer token")
	assert.Equal(t, http.StatusOK, rec.Code)
}
