package fiber

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/kpi/core/usecase"
	"facility-kpi-service/pkg/validation"
)

type Aggregator interface {
	AggregateAll(users []domain.UserRecords, ym domain.YearMonth) []domain.MonthlyAggregationResult
}

// AggregatorFactory builds an Aggregator for the capacity options of one
// request.
type AggregatorFactory func(opts usecase.Options) Aggregator

type KpiHandler struct {
	defaults usecase.Options
	newAgg   AggregatorFactory
	validate *validator.Validate
	log      *zap.Logger
}

func NewKpiHandler(defaults usecase.Options, newAgg AggregatorFactory, log *zap.Logger) *KpiHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &KpiHandler{defaults: defaults, newAgg: newAgg, validate: validation.New(), log: log}
}

// Aggregate godoc
// @Summary Aggregate monthly KPIs
// @Description Builds one monthly summary per posted user. A failing user is reported in its own result and never fails the request.
// @Tags KPI
// @Accept json
// @Produce json
// @Param request body AggregateRequest true "Daily records per user"
// @Success 200 {object} AggregateResponse
// @Failure 400 {object} ErrorResponse
// @Router /kpi/aggregate [post]
func (h *KpiHandler) Aggregate(c *fiber.Ctx) error {
	var req AggregateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:  "invalid_request",
			Fields: validation.Fields(err),
		})
	}

	ym, err := domain.ParseYearMonth(req.YearMonth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_year_month",
			Message: err.Error(),
		})
	}

	opts := h.defaults
	if req.UseCalendarDays != nil {
		opts.UseCalendarDays = *req.UseCalendarDays
	}
	if req.RowsPerDay != nil {
		opts.RowsPerDay = usecase.Rows(*req.RowsPerDay)
	}

	results := h.newAgg(opts).AggregateAll(req.toUserRecords(), ym)

	resp := AggregateResponse{
		YearMonth: ym.String(),
		Results:   make([]AggregationResultItem, 0, len(results)),
	}
	for _, r := range results {
		if r.Failed() {
			resp.Failed++
			h.log.Warn("aggregation failed",
				zap.String("user_id", r.Summary.UserID),
				zap.String("year_month", ym.String()),
				zap.Strings("errors", r.Errors),
			)
		}
		resp.Results = append(resp.Results, toResultItem(r))
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
