package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportPageSize = 500

// ExportService streams a user's full expense history in the requested
// format and reports the content type to serve it with.
type ExportService interface {
	ExportExpenses(ctx context.Context, userID uuid.UUID, format string, w io.Writer) (contentType string, err error)
}

type exportService struct {
	expenses repository.ExpenseRepository
	log      *zap.Logger
}

func NewExportService(expenses repository.ExpenseRepository, log *zap.Logger) ExportService {
	return &exportService{
		expenses: expenses,
		log:      log.With(zap.String("service", "export")),
	}
}

func (s *exportService) ExportExpenses(ctx context.Context, userID uuid.UUID, format string, w io.Writer) (string, error) {
	expenses, err := s.collect(ctx, userID)
	if err != nil {
		s.log.Error("Failed to collect expenses for export", zap.Error(err), zap.String("user_id", userID.String()))
		return "", fmt.Errorf("collect expenses: %w", ErrUnavailable)
	}

	switch format {
	case "csv":
		return "text/csv", s.writeCSV(w, expenses)
	case "json":
		return "application/json", s.writeJSON(w, expenses)
	case "pdf":
		return "application/pdf", s.writePDF(w, expenses)
	default:
		return "", fmt.Errorf("%w: format must be csv, json or pdf", ErrInvalidInput)
	}
}

func (s *exportService) collect(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error) {
	var all []*entity.Expense
	for offset := 0; ; offset += exportPageSize {
		page, err := s.expenses.FindAllByUser(ctx, userID, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			return all, nil
		}
	}
}

func (s *exportService) writeCSV(w io.Writer, expenses []*entity.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "category", "amount", "note"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range expenses {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		record := []string{
			e.SpentAt.Format(dateLayout),
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			note,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

type exportedExpense struct {
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Note     *string `json:"note,omitempty"`
}

func (s *exportService) writeJSON(w io.Writer, expenses []*entity.Expense) error {
	items := make([]exportedExpense, len(expenses))
	for i, e := range expenses {
		items[i] = exportedExpense{
			Date:     e.SpentAt.Format(dateLayout),
			Category: e.Category,
			Amount:   e.Amount,
			Note:     e.Note,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	return nil
}

func (s *exportService) writePDF(w io.Writer, expenses []*entity.Expense) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Expense Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 8, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(12)

	colWidths := []float64{28, 45, 30, 87}
	headers := []string{"Date", "Category", "Amount", "Note"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, e := range expenses {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		pdf.CellFormat(colWidths[0], 7, e.SpentAt.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, e.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, strconv.FormatFloat(e.Amount, 'f', 2, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, note, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
		total += e.Amount
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidths[0]+colWidths[1], 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, strconv.FormatFloat(total, 'f', 2, 64), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, "", "1", 0, "L", false, 0, "")
	pdf.Ln(-1)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
