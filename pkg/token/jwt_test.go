package token

import (
	"testing"
	"time"

	"finance-tracker/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager() *Manager {
	return NewManager(utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}, "test", zap.NewNop())
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newTestManager()

	tok, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestIssueEmptyUserID(t *testing.T) {
	m := newTestManager()

	_, err := m.Issue("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(utils.JWTConfig{Secret: "different-secret", ExpiryHours: 1}, "test", zap.NewNop())

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	m := newTestManager()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: "user-123",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	m := newTestManager()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, tok)
	}
}

func TestVerifyAcceptsLegacyClaim(t *testing.T) {
	m := newTestManager()

	// Tokens minted by older clients carry only the id claim.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		LegacyID: "legacy-user",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", got)
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	m := newTestManager()

	claims := Claims{UserID: "user-123"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDefaultTTL(t *testing.T) {
	m := NewManager(utils.JWTConfig{Secret: "s"}, "test", zap.NewNop())
	assert.Equal(t, defaultTTL, m.TTL())
}
