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

// BillingHandler handles checkout creation and the Stripe webhook.
type BillingHandler struct {
	service   service.BillingService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBillingHandler constructs a billing handler.
func NewBillingHandler(service service.BillingService, validator *validator.Validate, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "billing_handler").Logger(),
	}
}

// RegisterCheckout wires the authenticated checkout route.
func (h *BillingHandler) RegisterCheckout(router fiber.Router) {
	router.Post("/checkout", h.checkout)
}

// RegisterWebhook wires the unauthenticated webhook route. Stripe signs the
// raw body, so this route must not sit behind body-rewriting middleware.
func (h *BillingHandler) RegisterWebhook(router fiber.Router) {
	router.Post("/webhook", h.webhook)
}

func (h *BillingHandler) checkout(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.CheckoutRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.CreateCheckout(c.Context(), userID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPlan):
			return utils.SendError(c, fiber.StatusBadRequest, "unknown plan")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Msg("failed to create checkout session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create checkout session")
		}
	}

	return utils.SendSuccess(c, "checkout session created", response)
}

func (h *BillingHandler) webhook(c *fiber.Ctx) error {
	err := h.service.HandleWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid signature")
		}
		h.logger.Error().Err(err).Msg("failed to apply webhook event")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process event")
	}

	return utils.SendSuccess(c, "event processed", nil)
}
