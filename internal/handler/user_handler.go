package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/middleware"
	"github.com/fairwaylabs/caddie-api/internal/service"
	"github.com/fairwaylabs/caddie-api/internal/utils"
)

// UserHandler handles profile, credit, and handicap-link routes.
type UserHandler struct {
	service   service.UserService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(service service.UserService, validator *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires the profile routes. All require authentication.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("/me", h.profile)
	router.Put("/me", h.update)
	router.Get("/me/credits", h.credits)
	router.Post("/me/ghin", h.linkGHIN)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile", response)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.UpdateProfile(c.Context(), userID, payload)
	if err != nil {
		return h.sendServiceError(c, err, "failed to update profile")
	}

	return utils.SendSuccess(c, "profile updated", response)
}

func (h *UserHandler) credits(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.service.GetCredits(c.Context(), userID)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load credits")
	}

	return utils.SendSuccess(c, "credit balance", response)
}

func (h *UserHandler) linkGHIN(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.LinkGHINRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.LinkGHIN(c.Context(), userID, payload.GHINNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGolferNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "golfer not found")
		default:
			return h.sendServiceError(c, err, "failed to link handicap account")
		}
	}

	return utils.SendSuccess(c, "handicap account linked", response)
}

func (h *UserHandler) sendServiceError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, service.ErrUserNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	}

	h.logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
