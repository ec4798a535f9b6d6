package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// StudentReportHandler serves a student's own attendance standing.
type StudentReportHandler struct {
	reports service.StudentReportService
	logger  zerolog.Logger
}

// NewStudentReportHandler constructs the handler.
func NewStudentReportHandler(reports service.StudentReportService, logger zerolog.Logger) *StudentReportHandler {
	return &StudentReportHandler{
		reports: reports,
		logger:  logger.With().Str("component", "student_report_handler").Logger(),
	}
}

// Register attaches the self-report endpoint to the student router group.
func (h *StudentReportHandler) Register(router fiber.Router) {
	router.Get("/me/report", h.ownReport)
}

func (h *StudentReportHandler) ownReport(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user id missing")
	}

	report, err := h.reports.ComputeOwnReport(c.Context(), studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrNoActivePeriod):
			return utils.SendError(c, fiber.StatusConflict, "no active academic period")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "student report computed", report)
}
