package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// AttendanceHandler accepts Present marks from authenticated students.
type AttendanceHandler struct {
	attendance service.AttendanceService
	logger     zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(attendance service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		logger:     logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the mark endpoint to the session router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/:id/attendance", h.markPresent)
}

func (h *AttendanceHandler) markPresent(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user id missing")
	}

	record, err := h.attendance.MarkPresent(c.Context(), sessionID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrSessionNotActive):
			return utils.SendError(c, fiber.StatusConflict, "session is not active")
		case errors.Is(err, service.ErrNotEnrolled):
			return utils.SendError(c, fiber.StatusForbidden, "not enrolled in this course")
		case errors.Is(err, service.ErrSessionNotApplicable):
			return utils.SendError(c, fiber.StatusForbidden, "session predates enrollment")
		case errors.Is(err, service.ErrAttendanceAlreadyMarked):
			return utils.SendError(c, fiber.StatusConflict, "attendance already marked")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance marked", record)
}
