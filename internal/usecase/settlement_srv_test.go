package usecase

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettlementRepo struct {
	settlements map[uuid.UUID]*entity.Settlement
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{settlements: make(map[uuid.UUID]*entity.Settlement)}
}

func (f *fakeSettlementRepo) Create(ctx context.Context, s *entity.Settlement) error {
	cp := *s
	f.settlements[s.ID] = &cp
	return nil
}

func (f *fakeSettlementRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Settlement, error) {
	s, ok := f.settlements[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSettlementRepo) FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range f.settlements {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSettlementRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n := int64(0)
	for _, s := range f.settlements {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSettlementRepo) Update(ctx context.Context, s *entity.Settlement) error {
	cp := *s
	f.settlements[s.ID] = &cp
	return nil
}

func (f *fakeSettlementRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	delete(f.settlements, id)
	return nil
}

func (f *fakeSettlementRepo) Settle(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	s, ok := f.settlements[id]
	if !ok || s.UserID != userID || s.Settled {
		return false, nil
	}
	now := time.Now()
	s.Settled = true
	s.SettledAt = &now
	return true, nil
}

func TestSettleIdempotent(t *testing.T) {
	repo := newFakeSettlementRepo()
	svc := NewSettlementService(repo, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &request.SettlementRequest{
		Counterparty: "Bo",
		Direction:    "owed_to_me",
		Amount:       35,
	})
	require.NoError(t, err)
	assert.False(t, created.Settled)

	first, err := svc.Settle(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.True(t, first.Settled)
	require.NotNil(t, first.SettledAt)

	// Settling twice is not an error and keeps the original timestamp.
	second, err := svc.Settle(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.True(t, second.Settled)
	assert.Equal(t, first.SettledAt.Unix(), second.SettledAt.Unix())
}

func TestSettleUnknownID(t *testing.T) {
	svc := NewSettlementService(newFakeSettlementRepo(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Settle(ctx, uuid.New(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Settle(ctx, uuid.New(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettlementScopedToOwner(t *testing.T) {
	repo := newFakeSettlementRepo()
	svc := NewSettlementService(repo, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, &request.SettlementRequest{
		Counterparty: "Bo",
		Direction:    "i_owe",
		Amount:       12.5,
	})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "another user must not see the entry")

	got, err := svc.GetByID(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "i_owe", got.Direction)
}
