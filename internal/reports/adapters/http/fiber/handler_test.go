package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	kpidomain "facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/reports/core/domain"
	"facility-kpi-service/internal/reports/core/usecase"
)

type fakeGetUseCase struct {
	ExecuteFunc func(ctx context.Context, in usecase.GetMonthlyReportInput) (*domain.MonthlyReport, error)
	LastInput   usecase.GetMonthlyReportInput
}

func (f *fakeGetUseCase) Execute(ctx context.Context, in usecase.GetMonthlyReportInput) (*domain.MonthlyReport, error) {
	f.LastInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return &domain.MonthlyReport{}, nil
}

type fakeExportUseCase struct {
	ExecuteFunc func(ctx context.Context, in usecase.GetMonthlyReportInput) (*bytes.Buffer, string, error)
	LastInput   usecase.GetMonthlyReportInput
}

func (f *fakeExportUseCase) Execute(ctx context.Context, in usecase.GetMonthlyReportInput) (*bytes.Buffer, string, error) {
	f.LastInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return bytes.NewBufferString("xlsx"), "monthly-kpi.xlsx", nil
}

// helper: create fiber app and routes
func setupTestApp(getUC GetMonthlyReportUseCase, exportUC ExportMonthlyReportUseCase) *fiber.App {
	app := fiber.New()
	h := NewReportHandler(getUC, exportUC)

	app.Get("/reports/monthly", h.GetMonthly)
	app.Get("/reports/monthly/export", h.ExportMonthly)

	return app
}

func doGet(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()
	return resp, body
}

func TestGetMonthly_Success(t *testing.T) {
	getUC := &fakeGetUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GetMonthlyReportInput) (*domain.MonthlyReport, error) {
			return &domain.MonthlyReport{
				YearMonth: "2024-01",
				Summaries: []kpidomain.MonthlySummary{{
					UserID:         "U001",
					YearMonth:      kpidomain.NewYearMonth(2024, time.January),
					DisplayName:    "Alice",
					LastUpdatedUTC: time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC),
					Kpi:            kpidomain.MonthlyKpi{TotalDays: 23, PlannedRows: 437, CompletedRows: 200},
					CompletionRate: 45.77,
				}},
				Totals: domain.ReportTotals{Users: 1, PlannedRows: 437, CompletedRows: 200, AverageCompletionRate: 45.77},
			}, nil
		},
	}
	app := setupTestApp(getUC, &fakeExportUseCase{})

	resp, body := doGet(t, app, "/reports/monthly?year_month=2024-01&user_ids=U001,%20U002,&min_rate=40.5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, string(body))
	}

	in := getUC.LastInput
	if in.YearMonth != "2024-01" || len(in.UserIDs) != 2 || in.UserIDs[1] != "U002" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.MinCompletionRate == nil || *in.MinCompletionRate != 40.5 {
		t.Fatalf("unexpected min rate: %v", in.MinCompletionRate)
	}

	var got MonthlyReportResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(got.Summaries) != 1 || got.Summaries[0].LastUpdated != "2024-02-01T08:30:00Z" || got.Summaries[0].YearMonth != "2024-01" {
		t.Fatalf("unexpected summaries: %+v", got.Summaries)
	}
	if got.Totals.Users != 1 || got.Totals.AverageCompletionRate != 45.77 {
		t.Fatalf("unexpected totals: %+v", got.Totals)
	}
}

func TestGetMonthly_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"bad min rate", "/reports/monthly?min_rate=abc", nil, http.StatusBadRequest},
		{"nan min rate", "/reports/monthly?min_rate=NaN", nil, http.StatusBadRequest},
		{"invalid query", "/reports/monthly?year_month=x", usecase.ErrInvalidReportQuery, http.StatusBadRequest},
		{"invalid rate", "/reports/monthly?min_rate=101", usecase.ErrInvalidRate, http.StatusBadRequest},
		{"store error", "/reports/monthly", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		getUC := &fakeGetUseCase{
			ExecuteFunc: func(ctx context.Context, in usecase.GetMonthlyReportInput) (*domain.MonthlyReport, error) {
				return nil, tt.err
			},
		}
		resp, _ := doGet(t, setupTestApp(getUC, &fakeExportUseCase{}), tt.path)
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.wantStatus, resp.StatusCode)
		}
	}
}

func TestExportMonthly_Success(t *testing.T) {
	exportUC := &fakeExportUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GetMonthlyReportInput) (*bytes.Buffer, string, error) {
			return bytes.NewBufferString("PK-workbook"), "monthly-kpi_2024-01.xlsx", nil
		},
	}
	app := setupTestApp(&fakeGetUseCase{}, exportUC)

	resp, body := doGet(t, app, "/reports/monthly/export?year_month=2024-01&user_id=U001")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="monthly-kpi_2024-01.xlsx"` {
		t.Fatalf("unexpected content disposition: %s", cd)
	}
	if string(body) != "PK-workbook" {
		t.Fatalf("unexpected body: %s", string(body))
	}
	if exportUC.LastInput.UserID != "U001" {
		t.Fatalf("unexpected input: %+v", exportUC.LastInput)
	}
}

func TestExportMonthly_NoSummaries(t *testing.T) {
	exportUC := &fakeExportUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GetMonthlyReportInput) (*bytes.Buffer, string, error) {
			return nil, "", usecase.ErrNoSummaries
		},
	}
	resp, _ := doGet(t, setupTestApp(&fakeGetUseCase{}, exportUC), "/reports/monthly/export?year_month=2030-01")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
