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

// RollCallHandler manages submission and selection endpoints.
type RollCallHandler struct {
	service service.RollCallService
	logger  zerolog.Logger
}

// NewRollCallHandler builds a roll-call handler instance.
func NewRollCallHandler(service service.RollCallService, logger zerolog.Logger) *RollCallHandler {
	return &RollCallHandler{
		service: service,
		logger:  logger.With().Str("component", "rollcall_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. protect guards
// the mutating submit route; pass nil to leave it open.
func (h *RollCallHandler) Register(router fiber.Router, protect ...fiber.Handler) {
	submitHandlers := append(append([]fiber.Handler{}, protect...), h.submit)
	router.Post("/submit", submitHandlers...)
	router.Get("/pick", h.pick)
}

func (h *RollCallHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, result.Message, result)
}

func (h *RollCallHandler) pick(c *fiber.Ctx) error {
	student, err := h.service.Pick(c.UserContext(), c.Query("mode"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student selected", student)
}

func (h *RollCallHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrNoStudents):
		return utils.SendError(c, fiber.StatusNotFound, "no students registered")
	case errors.Is(err, service.ErrUnknownAction):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown action")
	case errors.Is(err, service.ErrUnknownPickMode):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown pick mode")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
