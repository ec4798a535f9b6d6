package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// OverviewHandler serves cross-course eligibility overviews.
type OverviewHandler struct {
	overviews service.OverviewService
	logger    zerolog.Logger
}

// NewOverviewHandler constructs the handler.
func NewOverviewHandler(overviews service.OverviewService, logger zerolog.Logger) *OverviewHandler {
	return &OverviewHandler{
		overviews: overviews,
		logger:    logger.With().Str("component", "overview_handler").Logger(),
	}
}

// Register attaches the overview endpoint to the router group.
func (h *OverviewHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
}

// overview scopes to the caller: lecturers see their own courses, admins see
// the whole school (school_id query) or a single lecturer (lecturer_id query).
func (h *OverviewHandler) overview(c *fiber.Ctx) error {
	scope := service.OverviewScope{}

	if userRoleFromContext(c) == string(models.RoleLecturer) {
		scope.LecturerID = userIDFromContext(c)
		if scope.LecturerID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "user id missing")
		}
	} else {
		lecturerID, err := parseUintQuery(c, "lecturer_id")
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		schoolID, err := parseUintQuery(c, "school_id")
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		scope.LecturerID = lecturerID
		scope.SchoolID = schoolID
		if scope.LecturerID == 0 && scope.SchoolID == 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "school_id or lecturer_id required")
		}
	}

	overview, err := h.overviews.ComputeOverview(c.Context(), scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLecturerNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lecturer not found")
		case errors.Is(err, service.ErrNoActivePeriod):
			return utils.SendError(c, fiber.StatusConflict, "no active academic period")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "overview computed", overview)
}
