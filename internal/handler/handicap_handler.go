package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fairwaylabs/caddie-api/internal/service"
	"github.com/fairwaylabs/caddie-api/internal/utils"
)

// HandicapHandler exposes golfer lookup and score history from the handicap
// service.
type HandicapHandler struct {
	service service.HandicapService
	logger  zerolog.Logger
}

// NewHandicapHandler constructs a handicap handler.
func NewHandicapHandler(service service.HandicapService, logger zerolog.Logger) *HandicapHandler {
	return &HandicapHandler{
		service: service,
		logger:  logger.With().Str("component", "handicap_handler").Logger(),
	}
}

// Register wires the handicap routes. All require authentication.
func (h *HandicapHandler) Register(router fiber.Router) {
	router.Get("/golfers/:ghin", h.lookup)
	router.Get("/golfers/:ghin/scores", h.scores)
}

func (h *HandicapHandler) lookup(c *fiber.Ctx) error {
	response, err := h.service.Lookup(c.Context(), c.Params("ghin"))
	if err != nil {
		return h.sendLookupError(c, err, "failed to look up golfer")
	}

	return utils.SendSuccess(c, "golfer", response)
}

func (h *HandicapHandler) scores(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	response, err := h.service.RecentScores(c.Context(), c.Params("ghin"), limit)
	if err != nil {
		return h.sendLookupError(c, err, "failed to fetch scores")
	}

	return utils.SendSuccess(c, "recent scores", response)
}

func (h *HandicapHandler) sendLookupError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, service.ErrGolferNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "golfer not found")
	}

	h.logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
