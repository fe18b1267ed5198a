package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"

	"github.com/google/uuid"
)

// fakeUserRepo is an in-memory UserRepository with the same duplicate-key
// behavior as the postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
		if u.ExternalID != nil && user.ExternalID != nil && *u.ExternalID == *user.ExternalID {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ExternalID != nil && *u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) AttachExternalID(ctx context.Context, userID uuid.UUID, externalID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.ID != userID && u.ExternalID != nil && *u.ExternalID == externalID {
			return false, repository.ErrDuplicate
		}
	}
	u, ok := f.users[userID]
	if !ok || u.ExternalID != nil {
		return false, nil
	}
	u.ExternalID = &externalID
	return true, nil
}

// fakeOTPRepo mirrors the conditional-consume semantics of the real table.
type fakeOTPRepo struct {
	mu   sync.Mutex
	otps map[uuid.UUID]*entity.OTP
	err  error
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: make(map[uuid.UUID]*entity.OTP)}
}

func (f *fakeOTPRepo) Create(ctx context.Context, otp *entity.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *otp
	f.otps[otp.ID] = &cp
	return nil
}

func (f *fakeOTPRepo) FindValid(ctx context.Context, email, code string) (*entity.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var newest *entity.OTP
	for _, o := range f.otps {
		if o.Email == email && o.Code == code && !o.IsUsed && o.ExpiresAt.After(time.Now()) {
			if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
				newest = o
			}
		}
	}
	if newest == nil {
		return nil, nil
	}
	cp := *newest
	return &cp, nil
}

func (f *fakeOTPRepo) Consume(ctx context.Context, otpID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	o, ok := f.otps[otpID]
	if !ok || o.IsUsed || !o.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	o.IsUsed = true
	return true, nil
}

func (f *fakeOTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for id, o := range f.otps {
		if o.Email == email {
			delete(f.otps, id)
		}
	}
	return nil
}

func (f *fakeOTPRepo) expireAll(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.otps {
		if o.Email == email {
			o.ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}

func (f *fakeOTPRepo) countForEmail(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.otps {
		if o.Email == email {
			n++
		}
	}
	return n
}
