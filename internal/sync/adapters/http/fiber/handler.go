package fiber

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	kpidomain "facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/usecase"
	"facility-kpi-service/pkg/validation"
)

type SyncMonthUseCase interface {
	Execute(ctx context.Context, in domain.SyncMonthInput) (domain.SyncMonthResult, error)
}

type SyncHandler struct {
	syncUC      SyncMonthUseCase
	onlyChanged bool
	validate    *validator.Validate
}

// NewSyncHandler uses onlyChanged for requests that omit only_changed.
func NewSyncHandler(syncUC SyncMonthUseCase, onlyChanged bool) *SyncHandler {
	return &SyncHandler{syncUC: syncUC, onlyChanged: onlyChanged, validate: validation.New()}
}

// SyncMonthly godoc
// @Summary Synchronise monthly summaries
// @Description Aggregates one month of daily records and upserts one summary per user into the record store
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body SyncMonthlyRequest true "Sync payload"
// @Success 200 {object} SyncMonthlyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sync/monthly [post]
func (h *SyncHandler) SyncMonthly(c *fiber.Ctx) error {
	var req SyncMonthlyRequest
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

	ym, err := kpidomain.ParseYearMonth(req.YearMonth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_year_month",
			Message: err.Error(),
		})
	}

	onlyChanged := h.onlyChanged
	if req.OnlyChanged != nil {
		onlyChanged = *req.OnlyChanged
	}

	res, err := h.syncUC.Execute(c.UserContext(), domain.SyncMonthInput{
		YearMonth:   ym,
		UserIDs:     req.UserIDs,
		OnlyChanged: onlyChanged,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSyncRequest):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(toSyncMonthlyResponse(res))
}
