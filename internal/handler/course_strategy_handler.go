package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/middleware"
	"github.com/fairwaylabs/caddie-api/internal/service"
	"github.com/fairwaylabs/caddie-api/internal/utils"
	"github.com/fairwaylabs/caddie-api/pkg/ai"
)

// CourseStrategyHandler handles course strategy generation and retrieval.
type CourseStrategyHandler struct {
	service   service.CourseStrategyService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseStrategyHandler constructs a course strategy handler.
func NewCourseStrategyHandler(service service.CourseStrategyService, validator *validator.Validate, logger zerolog.Logger) *CourseStrategyHandler {
	return &CourseStrategyHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "course_strategy_handler").Logger(),
	}
}

// Register wires the course strategy routes. All require authentication.
func (h *CourseStrategyHandler) Register(router fiber.Router) {
	router.Post("/course-strategy", h.generate)
	router.Get("/course-strategies", h.list)
	router.Get("/course-strategies/:id", h.get)
}

func (h *CourseStrategyHandler) generate(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	payload, scorecard, err := parseStrategyRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Generate(c.Context(), userID, payload, scorecard)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge), errors.Is(err, service.ErrNotAnImage):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ai.ErrBadModelReply):
			h.logger.Error().Err(err).Msg("model returned an unusable strategy")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate course strategy")
		default:
			h.logger.Error().Err(err).Msg("failed to generate course strategy")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate course strategy")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course strategy generated", response)
}

func (h *CourseStrategyHandler) list(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.service.List(c.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list course strategies")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list course strategies")
	}

	return utils.SendSuccess(c, "course strategies", response)
}

func (h *CourseStrategyHandler) get(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.service.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStrategyNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course strategy not found")
		case errors.Is(err, service.ErrNotOwner):
			return utils.SendError(c, fiber.StatusForbidden, "course strategy belongs to another user")
		default:
			h.logger.Error().Err(err).Msg("failed to load course strategy")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load course strategy")
		}
	}

	return utils.SendSuccess(c, "course strategy", response)
}

// parseStrategyRequest accepts a multipart form with an optional scorecard
// file, or a plain JSON body.
func parseStrategyRequest(c *fiber.Ctx) (dto.CourseStrategyRequest, *ai.Image, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var payload dto.CourseStrategyRequest
		if err := c.BodyParser(&payload); err != nil {
			return dto.CourseStrategyRequest{}, nil, errors.New("invalid payload")
		}
		return payload, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return dto.CourseStrategyRequest{}, nil, errors.New("invalid multipart form")
	}

	payload := dto.CourseStrategyRequest{
		CourseName: formValue(form, "course_name"),
		TeeSet:     formValue(form, "tee_set"),
		Notes:      formValue(form, "notes"),
	}
	if raw := formValue(form, "handicap"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return dto.CourseStrategyRequest{}, nil, errors.New("invalid handicap")
		}
		payload.Handicap = &parsed
	}

	headers := form.File["scorecard"]
	if len(headers) == 0 {
		return payload, nil, nil
	}
	img, err := readImage(headers[0])
	if err != nil {
		return dto.CourseStrategyRequest{}, nil, err
	}

	return payload, &img, nil
}
