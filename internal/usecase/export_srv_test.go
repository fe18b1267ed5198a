package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"finance-tracker/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExpenseRepo struct {
	expenses []*entity.Expense
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error { return nil }
func (f *fakeExpenseRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Expense, error) {
	return nil, nil
}
func (f *fakeExpenseRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.expenses)), nil
}
func (f *fakeExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error { return nil }
func (f *fakeExpenseRepo) Delete(ctx context.Context, id, userID uuid.UUID) error    { return nil }

func (f *fakeExpenseRepo) FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Expense, error) {
	if offset >= len(f.expenses) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.expenses) {
		end = len(f.expenses)
	}
	return f.expenses[offset:end], nil
}

func sampleExpenses() []*entity.Expense {
	note := "groceries at the market"
	return []*entity.Expense{
		{
			Base:     entity.Base{ID: uuid.New()},
			UserID:   uuid.New(),
			Amount:   42.50,
			Category: "food",
			Note:     &note,
			SpentAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Base:     entity.Base{ID: uuid.New()},
			UserID:   uuid.New(),
			Amount:   120,
			Category: "transport",
			SpentAt:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportCSV(t *testing.T) {
	svc := NewExportService(&fakeExpenseRepo{expenses: sampleExpenses()}, zap.NewNop())

	var buf bytes.Buffer
	contentType, err := svc.ExportExpenses(context.Background(), uuid.New(), "csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,category,amount,note", lines[0])
	assert.Equal(t, "2026-03-01,food,42.50,groceries at the market", lines[1])
	assert.Equal(t, "2026-03-02,transport,120.00,", lines[2])
}

func TestExportJSON(t *testing.T) {
	svc := NewExportService(&fakeExpenseRepo{expenses: sampleExpenses()}, zap.NewNop())

	var buf bytes.Buffer
	contentType, err := svc.ExportExpenses(context.Background(), uuid.New(), "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "2026-03-01", items[0]["date"])
	assert.Equal(t, "food", items[0]["category"])
	assert.EqualValues(t, 42.5, items[0]["amount"])
	_, hasNote := items[1]["note"]
	assert.False(t, hasNote, "empty notes stay out of the document")
}

func TestExportPDF(t *testing.T) {
	svc := NewExportService(&fakeExpenseRepo{expenses: sampleExpenses()}, zap.NewNop())

	var buf bytes.Buffer
	contentType, err := svc.ExportExpenses(context.Background(), uuid.New(), "pdf", &buf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output must be a PDF document")
}

func TestExportUnknownFormat(t *testing.T) {
	svc := NewExportService(&fakeExpenseRepo{}, zap.NewNop())

	var buf bytes.Buffer
	_, err := svc.ExportExpenses(context.Background(), uuid.New(), "xlsx", &buf)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, buf.Len())
}

func TestExportEmptyHistory(t *testing.T) {
	svc := NewExportService(&fakeExpenseRepo{}, zap.NewNop())

	var buf bytes.Buffer
	_, err := svc.ExportExpenses(context.Background(), uuid.New(), "csv", &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}
