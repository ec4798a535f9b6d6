package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// SessionHandler wires the class session lifecycle routes.
type SessionHandler struct {
	sessions service.SessionService
	logger   zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(sessions service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With().Str("component", "session_handler").Logger(),
	}
}

// RegisterCourseRoutes attaches session creation to the course router group.
func (h *SessionHandler) RegisterCourseRoutes(router fiber.Router) {
	router.Post("/:id/sessions", h.start)
}

// Register attaches session endpoints to the session router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("/:id", h.detail)
	router.Post("/:id/end", h.end)
}

func (h *SessionHandler) start(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.StartSessionRequest
	if err := c.BodyParser(&payload); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.sessions.Start(c.Context(), courseID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session started", session)
}

func (h *SessionHandler) end(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.End(c.Context(), sessionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "session ended", session)
}

func (h *SessionHandler) detail(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.sessions.Detail(c.Context(), sessionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "session retrieved", detail)
}

func (h *SessionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrSessionAlreadyEnded):
		return utils.SendError(c, fiber.StatusConflict, "session already ended")
	case errors.Is(err, service.ErrNoActivePeriod):
		return utils.SendError(c, fiber.StatusConflict, "no active academic period")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
