package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/service"
)

// LiveHandler streams live attendance events for an active session over a
// websocket. Lecturers keep the session view open while students mark in.
type LiveHandler struct {
	feed   service.LiveFeedService
	logger zerolog.Logger
}

// NewLiveHandler constructs the handler.
func NewLiveHandler(feed service.LiveFeedService, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		feed:   feed,
		logger: logger.With().Str("component", "live_handler").Logger(),
	}
}

// Register binds the live feed route under the session router group.
func (h *LiveHandler) Register(router fiber.Router) {
	router.Use("/:id/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/:id/live", websocket.New(h.handleConnection))
}

func (h *LiveHandler) handleConnection(conn *websocket.Conn) {
	sessionID, err := strconv.ParseUint(conn.Params("id"), 10, 64)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "invalid session id"))
		_ = conn.Close()
		return
	}

	events, cancel := h.feed.Subscribe(uint(sessionID))
	defer cancel()

	h.logger.Info().Uint64("session_id", sessionID).Msg("live feed connected")
	defer h.logger.Info().Uint64("session_id", sessionID).Msg("live feed disconnected")

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Type == dto.LiveEventSessionEnded {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
		}
	}
}
