package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/pkg/extauth"
	"finance-tracker/pkg/mailer"
	"finance-tracker/pkg/token"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExternalVerifier is the external identity provider contract; nil means the
// external path is disabled.
type ExternalVerifier interface {
	VerifyToken(ctx context.Context, bearerToken string) (*extauth.Identity, error)
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	SendOTP(ctx context.Context, req *request.SendOTPRequest) (*response.OTPResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error)
	Authenticate(ctx context.Context, bearerToken string) (uuid.UUID, error)
}

type authService struct {
	repo     *repository.Repository
	linker   UserLinker
	tokens   *token.Manager
	external ExternalVerifier
	mail     mailer.Mailer
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	linker UserLinker,
	tokens *token.Manager,
	external ExternalVerifier,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		linker:   linker,
		tokens:   tokens,
		external: external,
		mail:     mail,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("check email: %w", ErrUnavailable)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", ErrUnavailable)
	}

	user, err := s.linker.FindOrCreateByEmail(ctx, email, req.Name, PasswordPolicy(hash))
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == nil || *user.PasswordHash != hash {
		// The email raced with another signup; the winner's account stands
		// and this registration did not set its credential.
		return nil, ErrEmailTaken
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.issueFor(user)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for login", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user: %w", ErrUnavailable)
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// An account without a password path gets a distinct signal, not the
	// generic wrong-password rejection.
	if !user.HasPassword() {
		s.log.Warn("Password login against otp-only account",
			zap.String("user_id", user.ID.String()))
		return nil, ErrOTPOnlyAccount
	}

	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issueFor(user)
}

// SendOTP issues a fresh code and purges prior outstanding codes for the
// email, so only the latest code verifies. The code stays valid even when
// email delivery fails; outside production the response then carries it.
func (s *authService) SendOTP(ctx context.Context, req *request.SendOTPRequest) (*response.OTPResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	ttl := time.Duration(s.config.OTP.ExpirySeconds) * time.Second

	if err := s.repo.OTP.DeleteByEmail(ctx, email); err != nil {
		s.log.Error("Failed to purge prior OTPs", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("purge prior OTPs: %w", ErrUnavailable)
	}

	code, err := utils.GenerateOTP(s.config.OTP.Length)
	if err != nil {
		s.log.Error("Failed to generate OTP", zap.Error(err))
		return nil, fmt.Errorf("generate OTP: %w", ErrUnavailable)
	}

	now := time.Now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(ttl),
		IsUsed:    false,
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("save OTP: %w", ErrUnavailable)
	}

	s.log.Info("OTP generated",
		zap.String("email", email),
		zap.Time("expires_at", otp.ExpiresAt),
	)

	resp := &response.OTPResponse{ExpiresIn: int(ttl.Seconds())}

	if err := s.mail.SendOTP(ctx, email, code, ttl); err != nil {
		if !errors.Is(err, mailer.ErrNotConfigured) {
			s.log.Warn("OTP delivery failed, code remains valid",
				zap.Error(err), zap.String("email", email))
		}
		if !s.config.IsProduction() {
			resp.Code = code
		}
	}

	return resp, nil
}

// VerifyOTP consumes the code and logs the user in, registering the email as
// an otp-only account on first verification.
func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	// A first-time registration needs a name; reject before burning the code.
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email for OTP verify", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("check email: %w", ErrUnavailable)
	}
	if existing == nil && strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	otp, err := s.repo.OTP.FindValid(ctx, email, req.Code)
	if err != nil {
		s.log.Error("Failed to look up OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find OTP: %w", ErrUnavailable)
	}
	if otp == nil {
		s.log.Warn("OTP verification failed", zap.String("email", email))
		return nil, ErrOTPInvalidOrExpired
	}

	consumed, err := s.repo.OTP.Consume(ctx, otp.ID)
	if err != nil {
		return nil, fmt.Errorf("consume OTP: %w", ErrUnavailable)
	}
	if !consumed {
		// A concurrent verification won the conditional update.
		s.log.Warn("OTP already consumed", zap.String("email", email))
		return nil, ErrOTPInvalidOrExpired
	}

	user, err := s.linker.FindOrCreateByEmail(ctx, email, req.Name, OTPOnlyPolicy())
	if err != nil {
		return nil, err
	}

	s.log.Info("OTP verified",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
	)

	return s.issueFor(user)
}

// Authenticate resolves a bearer token to the canonical user id. The
// external provider is tried first when configured; every external failure
// (rejection, timeout, linking error) falls through to the locally issued
// token path. Both paths failing yields one generic rejection.
func (s *authService) Authenticate(ctx context.Context, bearerToken string) (uuid.UUID, error) {
	tok := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearerToken), "Bearer "))
	if tok == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	if s.external != nil {
		ident, err := s.external.VerifyToken(ctx, tok)
		if err == nil && ident != nil {
			user, lerr := s.linker.ResolveExternal(ctx, ident)
			if lerr == nil {
				return user.ID, nil
			}
			s.log.Warn("External identity resolved but linking failed",
				zap.Error(lerr), zap.String("external_id", ident.ID))
		} else if err != nil {
			s.log.Debug("External verification failed, trying local token", zap.Error(err))
		}
	}

	userID, err := s.tokens.Verify(tok)
	if err != nil {
		s.log.Warn("Local token verification failed", zap.Error(err))
		return uuid.Nil, ErrUnauthenticated
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		s.log.Warn("Token carries malformed user id", zap.String("user_id", userID))
		return uuid.Nil, ErrUnauthenticated
	}

	return id, nil
}

func (s *authService) issueFor(user *entity.User) (*response.AuthResponse, error) {
	tok, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", ErrUnavailable)
	}

	return response.AuthToResponse(user, tok, time.Now().Add(s.tokens.TTL())), nil
}
