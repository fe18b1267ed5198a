package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/pkg/extauth"
	"finance-tracker/pkg/mailer"
	"finance-tracker/pkg/token"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExternal struct {
	identity *extauth.Identity
	err      error
}

func (f *fakeExternal) VerifyToken(ctx context.Context, bearerToken string) (*extauth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Environment: "test"},
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		OTP: utils.OTPConfig{ExpirySeconds: 600, Length: 6},
	}
}

func newTestAuth(t *testing.T, external ExternalVerifier) (AuthService, *fakeUserRepo, *fakeOTPRepo) {
	t.Helper()
	log := zap.NewNop()
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	repo := &repository.Repository{User: users, OTP: otps}
	config := testConfig()
	tokens := token.NewManager(config.JWT, config.App.Environment, log)
	linker := NewUserLinker(users, log)
	svc := NewAuthService(repo, linker, tokens, external, mailer.New(config.Email, log), config, log)
	return svc, users, otps
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ana@example.com", reg.Email)
	assert.False(t, reg.OTPOnly)

	login, err := svc.Login(ctx, &request.LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)

	// The issued token resolves back to the same user.
	id, err := svc.Authenticate(ctx, "Bearer "+login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.UserID, id.String())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &request.RegisterRequest{Name: "Imposter", Email: "ANA@example.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "ana@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOTPLoginRegistersNewUser(t *testing.T) {
	svc, users, _ := newTestAuth(t, nil)
	ctx := context.Background()

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, sent.Code, "non-production response should carry the code when smtp is unset")
	assert.Len(t, sent.Code, 6)

	// First verification for an unknown email needs a name.
	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: sent.Code})
	assert.ErrorIs(t, err, ErrNameRequired)

	auth, err := svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: sent.Code, Name: "Bo"})
	require.NoError(t, err)
	assert.True(t, auth.OTPOnly)

	user, err := users.FindByEmail(ctx, "bo@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.OTPOnly)
	assert.Nil(t, user.PasswordHash)
}

func TestOTPLoginExistingPasswordUser(t *testing.T) {
	svc, users, _ := newTestAuth(t, nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &request.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "ana@example.com"})
	require.NoError(t, err)

	auth, err := svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "ana@example.com", Code: sent.Code})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, auth.UserID, "OTP login must resolve to the existing account, not create a second one")
	assert.False(t, auth.OTPOnly)

	user, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, user.HasPassword(), "password path must survive OTP logins")
}

func TestOTPSingleUse(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: sent.Code, Name: "Bo"})
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: sent.Code, Name: "Bo"})
	assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
}

func TestOTPReissueInvalidatesPrior(t *testing.T) {
	svc, _, otps := newTestAuth(t, nil)
	ctx := context.Background()

	first, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)

	second, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, otps.countForEmail("bo@example.com"), "issuing a code purges prior codes")

	if first.Code != second.Code {
		_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: first.Code, Name: "Bo"})
		assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
	}

	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: second.Code, Name: "Bo"})
	assert.NoError(t, err)
}

func TestOTPExpiredCode(t *testing.T) {
	svc, _, otps := newTestAuth(t, nil)
	ctx := context.Background()

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)

	// The correct code past its expiry must fail like any wrong code.
	otps.expireAll("bo@example.com")

	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: sent.Code, Name: "Bo"})
	assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
}

func TestOTPWrongCode(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)

	wrong := "000000"
	if sent.Code == wrong {
		wrong = "999999"
	}
	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: wrong, Name: "Bo"})
	assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
}

func TestPasswordLoginAgainstOTPOnlyAccount(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)
	_, err = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "bo@example.com", Code: sent.Code, Name: "Bo"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "bo@example.com", Password: "anything1"})
	assert.ErrorIs(t, err, ErrOTPOnlyAccount)
}

func TestConcurrentOTPVerifyExactlyOneWins(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	sent, err := svc.SendOTP(ctx, &request.SendOTPRequest{Email: "bo@example.com"})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.VerifyOTP(ctx, &request.VerifyOTPRequest{
				Email: "bo@example.com", Code: sent.Code, Name: "Bo",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent verification may consume the code")
}

func TestAuthenticateExternalFirst(t *testing.T) {
	ext := &fakeExternal{identity: &extauth.Identity{ID: "prov-1", Email: "eve@example.com", Name: "Eve"}}
	svc, users, _ := newTestAuth(t, ext)
	ctx := context.Background()

	id, err := svc.Authenticate(ctx, "Bearer some-provider-token")
	require.NoError(t, err)

	user, err := users.FindByExternalID(ctx, "prov-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "eve@example.com", user.Email)

	// Same provider identity keeps resolving to the same user.
	again, err := svc.Authenticate(ctx, "Bearer some-provider-token")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestAuthenticateExternalLinksExistingEmail(t *testing.T) {
	ext := &fakeExternal{identity: &extauth.Identity{ID: "prov-1", Email: "ana@example.com", Name: "Ana"}}
	svc, users, _ := newTestAuth(t, ext)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &request.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, "Bearer provider-token")
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, id.String(), "provider identity with a known email links, not duplicates")

	user, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.ExternalID)
	assert.Equal(t, "prov-1", *user.ExternalID)
}

func TestAuthenticateFallsBackToLocalToken(t *testing.T) {
	ext := &fakeExternal{err: errors.New("provider unreachable")}
	svc, _, _ := newTestAuth(t, ext)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &request.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, "Bearer "+reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, id.String())
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuth(t, nil)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "Bearer not.a.token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoginStorageFailure(t *testing.T) {
	svc, users, _ := newTestAuth(t, nil)
	ctx := context.Background()

	users.err = errors.New("connection refused")

	_, err := svc.Login(ctx, &request.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAuthenticateExternalLinkFailureFallsThrough(t *testing.T) {
	// Provider verifies but linking cannot reach storage; a locally issued
	// token must still work on the same request path.
	ext := &fakeExternal{identity: &extauth.Identity{ID: "prov-1", Email: "eve@example.com", Name: "Eve"}}
	svc, users, _ := newTestAuth(t, ext)
	ctx := context.Background()

	users.err = errors.New("connection refused")

	_, err := svc.Authenticate(ctx, "Bearer whatever")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	users.err = nil
	_, err = svc.Authenticate(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
