package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/dto"
	"github.com/classboard/rollcall-api/internal/service"
	"github.com/classboard/rollcall-api/internal/utils"
)

// SettingsHandler manages score rules and the bonus probability.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler builds a settings handler instance.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches the routes. protect guards the mutating routes.
func (h *SettingsHandler) Register(router fiber.Router, protect ...fiber.Handler) {
	guard := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, protect...), handler)
	}

	router.Get("/score-rules", h.scoreRules)
	router.Put("/score-rules", guard(h.updateScoreRules)...)
	router.Get("/probability", h.probability)
	router.Put("/probability", guard(h.updateProbability)...)
}

func (h *SettingsHandler) scoreRules(c *fiber.Ctx) error {
	rules, err := h.service.ScoreRules(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "score rules retrieved", rules)
}

func (h *SettingsHandler) updateScoreRules(c *fiber.Ctx) error {
	var payload dto.ScoreRulesUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rules, err := h.service.UpdateScoreRules(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "score rules updated", rules)
}

func (h *SettingsHandler) probability(c *fiber.Ctx) error {
	probability, err := h.service.Probability(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "probability retrieved", probability)
}

func (h *SettingsHandler) updateProbability(c *fiber.Ctx) error {
	var payload dto.ProbabilityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	probability, err := h.service.UpdateProbability(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "probability updated", probability)
}

func (h *SettingsHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUnknownAction):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
