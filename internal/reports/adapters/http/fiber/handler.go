package fiber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"facility-kpi-service/internal/reports/core/domain"
	"facility-kpi-service/internal/reports/core/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GetMonthlyReportUseCase interface {
	Execute(ctx context.Context, in usecase.GetMonthlyReportInput) (*domain.MonthlyReport, error)
}

type ExportMonthlyReportUseCase interface {
	Execute(ctx context.Context, in usecase.GetMonthlyReportInput) (*bytes.Buffer, string, error)
}

type ReportHandler struct {
	getUC    GetMonthlyReportUseCase
	exportUC ExportMonthlyReportUseCase
}

func NewReportHandler(getUC GetMonthlyReportUseCase, exportUC ExportMonthlyReportUseCase) *ReportHandler {
	return &ReportHandler{getUC: getUC, exportUC: exportUC}
}

// GetMonthly godoc
// @Summary List monthly summaries
// @Description Returns persisted monthly summaries with totals
// @Tags Reports
// @Produce json
// @Param year_month query string false "Month, YYYY-MM"
// @Param user_id query string false "Single user"
// @Param user_ids query string false "Comma separated users"
// @Param min_rate query number false "Minimum completion rate"
// @Success 200 {object} MonthlyReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/monthly [get]
func (h *ReportHandler) GetMonthly(c *fiber.Ctx) error {
	in, err := parseReportQuery(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	report, err := h.getUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	resp := MonthlyReportResponse{
		YearMonth: report.YearMonth,
		Totals:    TotalsResponse(report.Totals),
		Summaries: make([]SummaryResponse, 0, len(report.Summaries)),
	}
	for _, s := range report.Summaries {
		resp.Summaries = append(resp.Summaries, SummaryResponse{
			UserID:         s.UserID,
			YearMonth:      s.YearMonth.String(),
			DisplayName:    s.DisplayName,
			LastUpdated:    s.LastUpdatedUTC.UTC().Format(time.RFC3339Nano),
			TotalDays:      s.Kpi.TotalDays,
			PlannedRows:    s.Kpi.PlannedRows,
			CompletedRows:  s.Kpi.CompletedRows,
			InProgressRows: s.Kpi.InProgressRows,
			EmptyRows:      s.Kpi.EmptyRows,
			SpecialNotes:   s.Kpi.SpecialNotes,
			Incidents:      s.Kpi.Incidents,
			CompletionRate: s.CompletionRate,
			FirstEntryDate: s.FirstEntryDate,
			LastEntryDate:  s.LastEntryDate,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// ExportMonthly godoc
// @Summary Export monthly summaries
// @Description Returns the same selection as /reports/monthly as an xlsx workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param year_month query string false "Month, YYYY-MM"
// @Param user_id query string false "Single user"
// @Param user_ids query string false "Comma separated users"
// @Param min_rate query number false "Minimum completion rate"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/monthly/export [get]
func (h *ReportHandler) ExportMonthly(c *fiber.Ctx) error {
	in, err := parseReportQuery(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	buf, name, err := h.exportUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

func parseReportQuery(c *fiber.Ctx) (usecase.GetMonthlyReportInput, error) {
	in := usecase.GetMonthlyReportInput{
		YearMonth: c.Query("year_month", ""),
		UserID:    c.Query("user_id", ""),
	}

	if raw := c.Query("user_ids", ""); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				in.UserIDs = append(in.UserIDs, id)
			}
		}
	}

	if raw := c.Query("min_rate", ""); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(rate) {
			return in, errors.New("invalid 'min_rate' parameter")
		}
		in.MinCompletionRate = &rate
	}

	return in, nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidReportQuery),
		errors.Is(err, usecase.ErrInvalidRate):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrNoSummaries):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
