package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"expenso/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	exportSheet = "Expenses"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

var exportHeader = []string{"Date", "Description", "Category", "Amount"}

type ExportService struct {
	expenses Expenses
}

func NewExportService(expenses Expenses) *ExportService {
	return &ExportService{expenses: expenses}
}

// Export lists the caller's expenses with the same filter rules as the
// listing endpoint and renders them. An empty format means CSV.
func (s *ExportService) Export(ctx context.Context, userID int, f models.ExpenseFilter, format string) (ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return ExportFile{}, validationError("unsupported export format %q", format)
	}

	list, err := s.expenses.List(ctx, userID, f)
	if err != nil {
		return ExportFile{}, err
	}

	switch format {
	case FormatXLSX:
		data, err := renderXLSX(list)
		if err != nil {
			return ExportFile{}, err
		}
		return ExportFile{
			Name:        "expenses.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		data, err := renderCSV(list)
		if err != nil {
			return ExportFile{}, err
		}
		return ExportFile{Name: "expenses.csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil
	}
}

func renderCSV(list []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range list {
		if err := w.Write([]string{e.Date.String(), e.Description, e.CategoryName, e.Amount.String()}); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(list []models.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	for i, e := range list {
		row := strconv.Itoa(i + 2)
		values := []any{e.Date.String(), e.Description, e.CategoryName, e.Amount.Float64()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		if err := f.SetCellStyle(exportSheet, "D"+row, "D"+row, amountStyle); err != nil {
			return nil, fmt.Errorf("style row %s: %w", row, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
