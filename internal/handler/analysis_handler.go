package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
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

// AnalysisHandler handles analysis creation, retrieval, and PDF rendering.
type AnalysisHandler struct {
	service   service.AnalysisService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAnalysisHandler constructs an analysis handler.
func NewAnalysisHandler(service service.AnalysisService, validator *validator.Validate, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// RegisterAnalyze wires the analyze route. Token is optional there so that
// preview requests work without an account.
func (h *AnalysisHandler) RegisterAnalyze(router fiber.Router) {
	router.Post("/analyze", h.analyze)
}

// Register wires the stored-analysis routes. All require authentication.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Get("/analyses", h.list)
	router.Get("/analyses/:id", h.get)
	router.Get("/analyses/:id/pdf", h.pdf)
}

func (h *AnalysisHandler) analyze(c *fiber.Ctx) error {
	payload, images, err := parseAnalyzeRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var userID *uint
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	response, err := h.service.Analyze(c.Context(), userID, payload, images)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthRequired):
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		case errors.Is(err, service.ErrInsufficientCredits):
			return utils.SendError(c, fiber.StatusForbidden, "no analysis credits remaining")
		case errors.Is(err, service.ErrTooManyImages),
			errors.Is(err, service.ErrImageTooLarge),
			errors.Is(err, service.ErrUploadTooLarge),
			errors.Is(err, service.ErrNotAnImage):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ai.ErrBadModelReply):
			h.logger.Error().Err(err).Msg("model returned an unusable reply")
			return utils.SendError(c, fiber.StatusInternalServerError, "analysis failed")
		default:
			h.logger.Error().Err(err).Msg("analysis failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "analysis failed")
		}
	}

	return c.JSON(response)
}

func (h *AnalysisHandler) list(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.service.List(c.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list analyses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list analyses")
	}

	return utils.SendSuccess(c, "analyses", response)
}

func (h *AnalysisHandler) get(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.service.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return h.sendAnalysisError(c, err, "failed to load analysis")
	}

	return utils.SendSuccess(c, "analysis", response)
}

func (h *AnalysisHandler) pdf(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	docType := c.Query("type", "strategy")
	document, err := h.service.RenderPDF(c.Context(), userID, c.Params("id"), docType)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDocument) {
			return utils.SendError(c, fiber.StatusBadRequest, "type must be strategy or practice")
		}
		return h.sendAnalysisError(c, err, "failed to render document")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s-%s.pdf", docType, c.Params("id")))
	return c.Send(document)
}

func (h *AnalysisHandler) sendAnalysisError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "analysis not found")
	case errors.Is(err, service.ErrNotOwner):
		return utils.SendError(c, fiber.StatusForbidden, "analysis belongs to another user")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

// parseAnalyzeRequest accepts either a multipart form with scorecard files or
// a plain JSON body without images.
func parseAnalyzeRequest(c *fiber.Ctx) (dto.AnalyzeRequest, []ai.Image, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var payload dto.AnalyzeRequest
		if err := c.BodyParser(&payload); err != nil {
			return dto.AnalyzeRequest{}, nil, errors.New("invalid payload")
		}
		return payload, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return dto.AnalyzeRequest{}, nil, errors.New("invalid multipart form")
	}

	payload := dto.AnalyzeRequest{
		Name:        formValue(form, "name"),
		CourseName:  formValue(form, "course_name"),
		MissPattern: formValue(form, "miss_pattern"),
		Strengths:   formValue(form, "strengths"),
		GHINNumber:  formValue(form, "ghin_number"),
	}
	if raw := formValue(form, "handicap"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return dto.AnalyzeRequest{}, nil, errors.New("invalid handicap")
		}
		payload.Handicap = &parsed
	}
	if raw := formValue(form, "preview"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return dto.AnalyzeRequest{}, nil, errors.New("invalid preview flag")
		}
		payload.Preview = parsed
	}

	images, err := readImages(form.File["scorecards"])
	if err != nil {
		return dto.AnalyzeRequest{}, nil, err
	}

	return payload, images, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func readImages(headers []*multipart.FileHeader) ([]ai.Image, error) {
	images := make([]ai.Image, 0, len(headers))
	for _, header := range headers {
		img, err := readImage(header)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readImage(header *multipart.FileHeader) (ai.Image, error) {
	file, err := header.Open()
	if err != nil {
		return ai.Image{}, fmt.Errorf("open upload %q: %v", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ai.Image{}, fmt.Errorf("read upload %q: %v", header.Filename, err)
	}

	return ai.Image{
		MIME: header.Header.Get(fiber.HeaderContentType),
		Data: data,
	}, nil
}
