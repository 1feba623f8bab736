package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/realtime"
)

// LiveHandler streams submission events to classroom display boards.
type LiveHandler struct {
	broadcaster *realtime.Broadcaster
	logger      zerolog.Logger
}

// NewLiveHandler builds a live board handler.
func NewLiveHandler(broadcaster *realtime.Broadcaster, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		broadcaster: broadcaster,
		logger:      logger.With().Str("component", "live_handler").Logger(),
	}
}

// Register binds the websocket upgrade route.
func (h *LiveHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *LiveHandler) handleConnection(conn *websocket.Conn) {
	events, cancel := h.broadcaster.Subscribe()
	defer cancel()
	defer conn.Close()

	h.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("live board connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug().Err(err).Msg("live board write failed")
				return
			}
		case <-closed:
			h.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("live board disconnected")
			return
		}
	}
}
