package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// SchoolHandler wires school administration routes: academic period
// lifecycle and the school-wide default threshold.
type SchoolHandler struct {
	periods    service.PeriodResolver
	thresholds service.ThresholdResolver
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewSchoolHandler constructs the handler.
func NewSchoolHandler(
	periods service.PeriodResolver,
	thresholds service.ThresholdResolver,
	validate *validator.Validate,
	logger zerolog.Logger,
) *SchoolHandler {
	return &SchoolHandler{
		periods:    periods,
		thresholds: thresholds,
		validator:  validate,
		logger:     logger.With().Str("component", "school_handler").Logger(),
	}
}

// Register attaches school administration endpoints to the router group.
func (h *SchoolHandler) Register(router fiber.Router) {
	router.Get("/:id/period", h.currentPeriod)
	router.Post("/:id/academic-years", h.startAcademicYear)
	router.Delete("/:id/period", h.closePeriod)
	router.Put("/:id/threshold", h.setThreshold)
}

func (h *SchoolHandler) currentPeriod(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	period, err := h.periods.Resolve(c.Context(), schoolID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "active period", dto.NewPeriodResponse(period))
}

func (h *SchoolHandler) startAcademicYear(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.StartAcademicYearRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	period, err := h.periods.StartAcademicYear(c.Context(), schoolID, payload.Label, models.Semester(payload.Semester))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "academic period opened", dto.NewPeriodResponse(period))
}

func (h *SchoolHandler) closePeriod(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.periods.ClosePeriod(c.Context(), schoolID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "academic period closed", fiber.Map{"school_id": schoolID})
}

func (h *SchoolHandler) setThreshold(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SetThresholdRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.thresholds.SetSchoolThreshold(c.Context(), schoolID, payload.Threshold); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "school threshold updated", payload)
}

func (h *SchoolHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoActivePeriod):
		return utils.SendError(c, fiber.StatusNotFound, "no active academic period")
	case errors.Is(err, service.ErrInvalidThreshold):
		return utils.SendError(c, fiber.StatusBadRequest, "threshold must be between 50 and 100")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
