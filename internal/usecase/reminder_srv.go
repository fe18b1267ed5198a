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

type ReminderService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.ReminderRequest) (*response.ReminderResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, reminderID string) (*response.ReminderResponse, error)
	List(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReminderResponse], error)
	Due(ctx context.Context, userID uuid.UUID) ([]response.ReminderResponse, error)
	Update(ctx context.Context, userID uuid.UUID, reminderID string, req *request.ReminderUpdateRequest) (*response.ReminderResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, reminderID string) error
	MarkNotified(ctx context.Context, userID uuid.UUID, reminderID string) (*response.ReminderResponse, error)
}

type reminderService struct {
	reminders repository.ReminderRepository
	log       *zap.Logger
}

func NewReminderService(reminders repository.ReminderRepository, log *zap.Logger) ReminderService {
	return &reminderService{
		reminders: reminders,
		log:       log.With(zap.String("service", "reminder")),
	}
}

func (s *reminderService) Create(ctx context.Context, userID uuid.UUID, req *request.ReminderRequest) (*response.ReminderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		return nil, fmt.Errorf("%w: due_at must be RFC3339", ErrInvalidInput)
	}

	now := time.Now()
	reminder := &entity.Reminder{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   userID,
		Title:    req.Title,
		Note:     req.Note,
		DueAt:    dueAt,
		Notified: false,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		s.log.Error("Failed to create reminder", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("create reminder: %w", ErrUnavailable)
	}

	s.log.Info("Reminder created",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Time("due_at", dueAt),
	)

	resp := response.ReminderToResponse(reminder)
	return &resp, nil
}

func (s *reminderService) GetByID(ctx context.Context, userID uuid.UUID, reminderID string) (*response.ReminderResponse, error) {
	id, err := uuid.Parse(reminderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reminder id", ErrInvalidInput)
	}

	reminder, err := s.reminders.FindByID(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to find reminder", zap.Error(err), zap.String("reminder_id", reminderID))
		return nil, fmt.Errorf("find reminder: %w", ErrUnavailable)
	}
	if reminder == nil {
		return nil, ErrNotFound
	}

	resp := response.ReminderToResponse(reminder)
	return &resp, nil
}

func (s *reminderService) List(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReminderResponse], error) {
	reminders, err := s.reminders.FindAllByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list reminders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list reminders: %w", ErrUnavailable)
	}

	total, err := s.reminders.CountByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count reminders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("count reminders: %w", ErrUnavailable)
	}

	items := make([]response.ReminderResponse, len(reminders))
	for i, reminder := range reminders {
		items[i] = response.ReminderToResponse(reminder)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *reminderService) Due(ctx context.Context, userID uuid.UUID) ([]response.ReminderResponse, error) {
	reminders, err := s.reminders.FindDue(ctx, userID, time.Now())
	if err != nil {
		s.log.Error("Failed to find due reminders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find due reminders: %w", ErrUnavailable)
	}

	items := make([]response.ReminderResponse, len(reminders))
	for i, reminder := range reminders {
		items[i] = response.ReminderToResponse(reminder)
	}

	return items, nil
}

func (s *reminderService) Update(ctx context.Context, userID uuid.UUID, reminderID string, req *request.ReminderUpdateRequest) (*response.ReminderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(reminderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reminder id", ErrInvalidInput)
	}

	reminder, err := s.reminders.FindByID(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to find reminder for update", zap.Error(err), zap.String("reminder_id", reminderID))
		return nil, fmt.Errorf("find reminder: %w", ErrUnavailable)
	}
	if reminder == nil {
		return nil, ErrNotFound
	}

	if req.Title != nil {
		reminder.Title = *req.Title
	}
	if req.Note != nil {
		reminder.Note = req.Note
	}
	if req.DueAt != nil {
		dueAt, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			return nil, fmt.Errorf("%w: due_at must be RFC3339", ErrInvalidInput)
		}
		reminder.DueAt = dueAt
	}
	reminder.UpdatedAt = time.Now()

	if err := s.reminders.Update(ctx, reminder); err != nil {
		s.log.Error("Failed to update reminder", zap.Error(err), zap.String("reminder_id", reminderID))
		return nil, fmt.Errorf("update reminder: %w", ErrUnavailable)
	}

	resp := response.ReminderToResponse(reminder)
	return &resp, nil
}

func (s *reminderService) Delete(ctx context.Context, userID uuid.UUID, reminderID string) error {
	id, err := uuid.Parse(reminderID)
	if err != nil {
		return fmt.Errorf("%w: invalid reminder id", ErrInvalidInput)
	}

	reminder, err := s.reminders.FindByID(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("find reminder: %w", ErrUnavailable)
	}
	if reminder == nil {
		return ErrNotFound
	}

	if err := s.reminders.Delete(ctx, id, userID); err != nil {
		s.log.Error("Failed to delete reminder", zap.Error(err), zap.String("reminder_id", reminderID))
		return fmt.Errorf("delete reminder: %w", ErrUnavailable)
	}

	return nil
}

// MarkNotified is idempotent like Settle: a reminder already notified comes
// back unchanged.
func (s *reminderService) MarkNotified(ctx context.Context, userID uuid.UUID, reminderID string) (*response.ReminderResponse, error) {
	id, err := uuid.Parse(reminderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reminder id", ErrInvalidInput)
	}

	marked, err := s.reminders.MarkNotified(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to mark reminder notified", zap.Error(err), zap.String("reminder_id", reminderID))
		return nil, fmt.Errorf("mark notified: %w", ErrUnavailable)
	}

	reminder, err := s.reminders.FindByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find reminder: %w", ErrUnavailable)
	}
	if reminder == nil {
		return nil, ErrNotFound
	}

	if marked {
		s.log.Info("Reminder marked notified",
			zap.String("reminder_id", reminderID),
			zap.String("user_id", userID.String()),
		)
	}

	resp := response.ReminderToResponse(reminder)
	return &resp, nil
}
