package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// EnrollmentHandler wires course enrollment routes for students.
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
	logger      zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(enrollments service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		logger:      logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment endpoints to the course router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("/:id/enrollment", h.enroll)
	router.Delete("/:id/enrollment", h.drop)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user id missing")
	}

	enrollment, err := h.enrollments.Enroll(c.Context(), courseID, studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", enrollment)
}

func (h *EnrollmentHandler) drop(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user id missing")
	}

	if err := h.enrollments.Drop(c.Context(), courseID, studentID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "enrollment dropped", fiber.Map{"course_id": courseID})
}

func (h *EnrollmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendError(c, fiber.StatusConflict, "already enrolled")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusNotFound, "not enrolled")
	case errors.Is(err, service.ErrNoActivePeriod):
		return utils.SendError(c, fiber.StatusConflict, "no active academic period")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
