package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// SettingsHandler wires lecturer-facing settings: the personal eligibility
// threshold override applied to the lecturer's courses.
type SettingsHandler struct {
	thresholds service.ThresholdResolver
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(thresholds service.ThresholdResolver, validate *validator.Validate, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		thresholds: thresholds,
		validator:  validate,
		logger:     logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches settings endpoints to the router group.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Put("/threshold", h.setThreshold)
}

func (h *SettingsHandler) setThreshold(c *fiber.Ctx) error {
	lecturerID := userIDFromContext(c)
	if lecturerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user id missing")
	}

	var payload dto.SetThresholdRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.thresholds.SetLecturerThreshold(c.Context(), lecturerID, payload.Threshold); err != nil {
		if errors.Is(err, service.ErrInvalidThreshold) {
			return utils.SendError(c, fiber.StatusBadRequest, "threshold must be between 50 and 100")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "threshold updated", payload)
}
