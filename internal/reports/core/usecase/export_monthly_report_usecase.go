package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"facility-kpi-service/internal/reports/core/domain"
)

var ErrNoSummaries = errors.New("no summaries match the report query")

const reportSheet = "Monthly KPI"

var reportColumns = []struct {
	title string
	width float64
}{
	{"User", 14},
	{"Name", 24},
	{"Month", 10},
	{"Days", 8},
	{"Planned", 10},
	{"Completed", 11},
	{"In progress", 12},
	{"Empty", 10},
	{"Notes", 8},
	{"Incidents", 10},
	{"Rate %", 10},
	{"First entry", 12},
	{"Last entry", 12},
	{"Last updated (UTC)", 22},
}

type monthlyReportReader interface {
	Execute(ctx context.Context, in GetMonthlyReportInput) (*domain.MonthlyReport, error)
}

type ExportMonthlyReportUseCase struct {
	reports monthlyReportReader
	log     *zap.Logger
}

func NewExportMonthlyReportUseCase(reports monthlyReportReader, log *zap.Logger) *ExportMonthlyReportUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportMonthlyReportUseCase{reports: reports, log: log}
}

// Execute renders the report as an xlsx workbook with one row per summary
// and a totals row. It returns the workbook and a download file name.
func (uc *ExportMonthlyReportUseCase) Execute(ctx context.Context, in GetMonthlyReportInput) (*bytes.Buffer, string, error) {
	report, err := uc.reports.Execute(ctx, in)
	if err != nil {
		return nil, "", err
	}
	if len(report.Summaries) == 0 {
		return nil, "", ErrNoSummaries
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("totals style: %w", err)
	}

	if err := writeHeader(f, headerStyle); err != nil {
		return nil, "", err
	}

	row := 2
	for _, s := range report.Summaries {
		values := []any{
			s.UserID,
			s.DisplayName,
			s.YearMonth.String(),
			s.Kpi.TotalDays,
			s.Kpi.PlannedRows,
			s.Kpi.CompletedRows,
			s.Kpi.InProgressRows,
			s.Kpi.EmptyRows,
			s.Kpi.SpecialNotes,
			s.Kpi.Incidents,
			s.CompletionRate,
			s.FirstEntryDate,
			s.LastEntryDate,
			s.LastUpdatedUTC.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(reportSheet, cell(0, row), &values); err != nil {
			return nil, "", err
		}
		row++
	}

	t := report.Totals
	totalsRow := []any{
		"Total", fmt.Sprintf("%d users", t.Users), report.YearMonth, nil,
		t.PlannedRows, t.CompletedRows, t.InProgressRows, t.EmptyRows,
		t.SpecialNotes, t.Incidents, t.AverageCompletionRate,
	}
	if err := f.SetSheetRow(reportSheet, cell(0, row), &totalsRow); err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(reportSheet, cell(0, row), cell(len(reportColumns)-1, row), totalStyle); err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		uc.log.Error("write xlsx failed", zap.Error(err))
		return nil, "", err
	}

	return buf, fileName(report.YearMonth), nil
}

func writeHeader(f *excelize.File, style int) error {
	for i, col := range reportColumns {
		name := colName(i)
		if err := f.SetColWidth(reportSheet, name, name, col.width); err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, cell(i, 1), col.title); err != nil {
			return err
		}
	}
	return f.SetCellStyle(reportSheet, cell(0, 1), cell(len(reportColumns)-1, 1), style)
}

func fileName(yearMonth string) string {
	if yearMonth == "" {
		return "monthly-kpi.xlsx"
	}
	return fmt.Sprintf("monthly-kpi_%s.xlsx", yearMonth)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
