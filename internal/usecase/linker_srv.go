package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/extauth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreationPolicy describes which authentication path a brand-new user gets.
// Every policy yields at least one usable path.
type CreationPolicy struct {
	PasswordHash *string
	OTPOnly      bool
	ExternalID   *string
	RequireName  bool
}

func PasswordPolicy(hash string) CreationPolicy {
	return CreationPolicy{PasswordHash: &hash}
}

// OTPOnlyPolicy registers through code verification; a fresh registration
// needs a display name from the request.
func OTPOnlyPolicy() CreationPolicy {
	return CreationPolicy{OTPOnly: true, RequireName: true}
}

func ExternalPolicy(externalID string) CreationPolicy {
	return CreationPolicy{ExternalID: &externalID}
}

// UserLinker resolves any verified identity to the one canonical user record.
type UserLinker interface {
	FindOrCreateByEmail(ctx context.Context, email, displayName string, policy CreationPolicy) (*entity.User, error)
	LinkExternalIdentity(ctx context.Context, user *entity.User, externalID string) (*entity.User, error)
	ResolveExternal(ctx context.Context, ident *extauth.Identity) (*entity.User, error)
}

type userLinker struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserLinker(users repository.UserRepository, log *zap.Logger) UserLinker {
	return &userLinker{
		users: users,
		log:   log.With(zap.String("service", "linker")),
	}
}

// FindOrCreateByEmail is idempotent: repeated calls with the same email
// return the same user. A lost creation race against a concurrent first
// login is recovered by re-reading the winner's row.
func (l *userLinker) FindOrCreateByEmail(ctx context.Context, email, displayName string, policy CreationPolicy) (*entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := l.users.FindByEmail(ctx, email)
	if err != nil {
		l.log.Error("Failed to look up user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user: %w", ErrUnavailable)
	}
	if user != nil {
		return user, nil
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		if policy.RequireName {
			return nil, ErrNameRequired
		}
		name = emailLocalPart(email)
	}

	now := time.Now()
	user = &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         name,
		Email:        email,
		PasswordHash: policy.PasswordHash,
		ExternalID:   policy.ExternalID,
		OTPOnly:      policy.OTPOnly,
	}

	if err := l.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return l.recoverLostRace(ctx, email, policy)
		}
		l.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("create user: %w", ErrUnavailable)
	}

	l.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
		zap.Bool("otp_only", user.OTPOnly),
		zap.Bool("external", user.ExternalID != nil),
	)

	return user, nil
}

// recoverLostRace re-reads after a duplicate-key failure: some concurrent
// request created the row first and that row is canonical.
func (l *userLinker) recoverLostRace(ctx context.Context, email string, policy CreationPolicy) (*entity.User, error) {
	user, err := l.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("recover user creation race: %w", ErrUnavailable)
	}
	if user == nil && policy.ExternalID != nil {
		// The collision was on the external id index, not the email.
		user, err = l.users.FindByExternalID(ctx, *policy.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("recover user creation race: %w", ErrUnavailable)
		}
	}
	if user == nil {
		return nil, fmt.Errorf("recover user creation race: %w", ErrUnavailable)
	}

	l.log.Info("Recovered concurrent user creation",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
	)

	return user, nil
}

// LinkExternalIdentity attaches the external id at most once per user
// (first-writer-wins). A mismatching existing link is kept and the attempt
// logged, never overwritten.
func (l *userLinker) LinkExternalIdentity(ctx context.Context, user *entity.User, externalID string) (*entity.User, error) {
	if user.ExternalID != nil {
		if *user.ExternalID != externalID {
			l.log.Warn("External id mismatch, keeping existing link",
				zap.String("user_id", user.ID.String()),
				zap.String("existing", *user.ExternalID),
				zap.String("attempted", externalID),
			)
		}
		return user, nil
	}

	attached, err := l.users.AttachExternalID(ctx, user.ID, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// The external id is already attached to another user; keep the
			// canonical user resolved by email.
			l.log.Warn("External id already linked elsewhere",
				zap.String("user_id", user.ID.String()),
				zap.String("external_id", externalID),
			)
			return user, nil
		}
		return nil, fmt.Errorf("link external identity: %w", ErrUnavailable)
	}

	if attached {
		user.ExternalID = &externalID
		l.log.Info("External identity linked",
			zap.String("user_id", user.ID.String()),
			zap.String("external_id", externalID),
		)
	}

	return user, nil
}

// ResolveExternal maps a provider identity to the canonical user: by
// external id first, then by email, creating the account when neither
// matches.
func (l *userLinker) ResolveExternal(ctx context.Context, ident *extauth.Identity) (*entity.User, error) {
	user, err := l.users.FindByExternalID(ctx, ident.ID)
	if err != nil {
		return nil, fmt.Errorf("find user by external id: %w", ErrUnavailable)
	}
	if user != nil {
		return user, nil
	}

	user, err = l.FindOrCreateByEmail(ctx, ident.Email, ident.Name, ExternalPolicy(ident.ID))
	if err != nil {
		return nil, err
	}

	return l.LinkExternalIdentity(ctx, user, ident.ID)
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
