package token

import (
	"errors"
	"time"

	"finance-tracker/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("user id is required")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// devSecret signs tokens when JWT_SECRET is unset. Never acceptable in
// production; NewManager logs loudly when it is in play.
const devSecret = "finance-tracker-dev-secret"

const defaultTTL = 168 * time.Hour // 7 days

// Claims carries the canonical user id. LegacyID duplicates it under the
// claim name older clients still read.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId,omitempty"`
	LegacyID string `json:"id,omitempty"`
}

// Manager issues and verifies self-contained session tokens. Stateless:
// everything needed for verification lives in the token and the secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(config utils.JWTConfig, environment string, log *zap.Logger) *Manager {
	secret := config.Secret
	if secret == "" {
		secret = devSecret
		if environment == "production" {
			log.Error("JWT_SECRET is not set in production, falling back to development secret")
		} else {
			log.Warn("JWT_SECRET is not set, using development secret")
		}
	}

	ttl := time.Duration(config.ExpiryHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue mints a signed token embedding userID with a fixed expiry.
func (m *Manager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidInput
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   userID,
		LegacyID: userID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Accepts the userId claim, the legacy id claim, or the subject.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !tok.Valid {
		return "", ErrTokenInvalid
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.LegacyID
	}
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", ErrTokenInvalid
	}

	return userID, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
