package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/service"
	"github.com/classboard/rollcall-api/internal/utils"
)

// StatsHandler serves class-wide aggregates.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler builds a stats handler instance.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
}

func (h *StatsHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("stats overview failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "stats retrieved", overview)
}
