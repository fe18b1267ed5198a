package usecase

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SettlementService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.SettlementRequest) (*response.SettlementResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, settlementID string) (*response.SettlementResponse, error)
	List(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.SettlementResponse], error)
	Update(ctx context.Context, userID uuid.UUID, settlementID string, req *request.SettlementUpdateRequest) (*response.SettlementResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, settlementID string) error
	Settle(ctx context.Context, userID uuid.UUID, settlementID string) (*response.SettlementResponse, error)
}

type settlementService struct {
	settlements repository.SettlementRepository
	log         *zap.Logger
}

func NewSettlementService(settlements repository.SettlementRepository, log *zap.Logger) SettlementService {
	return &settlementService{
		settlements: settlements,
		log:         log.With(zap.String("service", "settlement")),
	}
}

func (s *settlementService) Create(ctx context.Context, userID uuid.UUID, req *request.SettlementRequest) (*response.SettlementResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	settlement := &entity.Settlement{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:       userID,
		Counterparty: req.Counterparty,
		Direction:    entity.SettlementDirection(req.Direction),
		Amount:       req.Amount,
		Note:         req.Note,
		Settled:      false,
	}

	if err := s.settlements.Create(ctx, settlement); err != nil {
		s.log.Error("Failed to create settlement", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("create settlement: %w", ErrUnavailable)
	}

	s.log.Info("Settlement created",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("direction", req.Direction),
	)

	resp := response.SettlementToResponse(settlement)
	return &resp, nil
}

func (s *settlementService) GetByID(ctx context.Context, userID uuid.UUID, settlementID string) (*response.SettlementResponse, error) {
	id, err := uuid.Parse(settlementID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid settlement id", ErrInvalidInput)
	}

	settlement, err := s.settlements.FindByID(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to find settlement", zap.Error(err), zap.String("settlement_id", settlementID))
		return nil, fmt.Errorf("find settlement: %w", ErrUnavailable)
	}
	if settlement == nil {
		return nil, ErrNotFound
	}

	resp := response.SettlementToResponse(settlement)
	return &resp, nil
}

func (s *settlementService) List(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.SettlementResponse], error) {
	settlements, err := s.settlements.FindAllByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list settlements", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list settlements: %w", ErrUnavailable)
	}

	total, err := s.settlements.CountByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count settlements", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("count settlements: %w", ErrUnavailable)
	}

	items := make([]response.SettlementResponse, len(settlements))
	for i, settlement := range settlements {
		items[i] = response.SettlementToResponse(settlement)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *settlementService) Update(ctx context.Context, userID uuid.UUID, settlementID string, req *request.SettlementUpdateRequest) (*response.SettlementResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(settlementID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid settlement id", ErrInvalidInput)
	}

	settlement, err := s.settlements.FindByID(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to find settlement for update", zap.Error(err), zap.String("settlement_id", settlementID))
		return nil, fmt.Errorf("find settlement: %w", ErrUnavailable)
	}
	if settlement == nil {
		return nil, ErrNotFound
	}

	if req.Counterparty != nil {
		settlement.Counterparty = *req.Counterparty
	}
	if req.Direction != nil {
		settlement.Direction = entity.SettlementDirection(*req.Direction)
	}
	if req.Amount != nil {
		settlement.Amount = *req.Amount
	}
	if req.Note != nil {
		settlement.Note = req.Note
	}
	settlement.UpdatedAt = time.Now()

	if err := s.settlements.Update(ctx, settlement); err != nil {
		s.log.Error("Failed to update settlement", zap.Error(err), zap.String("settlement_id", settlementID))
		return nil, fmt.Errorf("update settlement: %w", ErrUnavailable)
	}

	resp := response.SettlementToResponse(settlement)
	return &resp, nil
}

func (s *settlementService) Delete(ctx context.Context, userID uuid.UUID, settlementID string) error {
	id, err := uuid.Parse(settlementID)
	if err != nil {
		return fmt.Errorf("%w: invalid settlement id", ErrInvalidInput)
	}

	settlement, err := s.settlements.FindByID(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("find settlement: %w", ErrUnavailable)
	}
	if settlement == nil {
		return ErrNotFound
	}

	if err := s.settlements.Delete(ctx, id, userID); err != nil {
		s.log.Error("Failed to delete settlement", zap.Error(err), zap.String("settlement_id", settlementID))
		return fmt.Errorf("delete settlement: %w", ErrUnavailable)
	}

	return nil
}

// Settle is idempotent: settling an already-settled entry returns its current
// state instead of an error.
func (s *settlementService) Settle(ctx context.Context, userID uuid.UUID, settlementID string) (*response.SettlementResponse, error) {
	id, err := uuid.Parse(settlementID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid settlement id", ErrInvalidInput)
	}

	settled, err := s.settlements.Settle(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to settle", zap.Error(err), zap.String("settlement_id", settlementID))
		return nil, fmt.Errorf("settle: %w", ErrUnavailable)
	}

	settlement, err := s.settlements.FindByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find settlement: %w", ErrUnavailable)
	}
	if settlement == nil {
		return nil, ErrNotFound
	}

	if settled {
		s.log.Info("Settlement marked settled",
			zap.String("settlement_id", settlementID),
			zap.String("user_id", userID.String()),
		)
	}

	resp := response.SettlementToResponse(settlement)
	return &resp, nil
}
