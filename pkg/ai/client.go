// Package ai wraps the language-model API behind typed, schema-validated
// calls. Everything non-deterministic lives here; prompt assembly stays in
// internal/golf so it can be tested byte-for-byte.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

var (
	modelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "caddie",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of language-model requests",
	}, []string{"operation", "model"})

	modelFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "caddie",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of failed language-model requests",
	}, []string{"operation", "model"})
)

// Config defines configuration options for the coach client.
type Config struct {
	APIKey      string
	Model       string
	VisionModel string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// Image is one scorecard image submitted for extraction.
type Image struct {
	MIME string
	Data []byte
}

// CoachClient talks to the chat-completion API for coaching analyses,
// scorecard extraction and course strategies.
type CoachClient struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// New builds a coach client from the provided configuration.
func New(cfg Config) (*CoachClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = "gpt-4o"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &CoachClient{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/fairwaylabs/caddie-api/pkg/ai"),
		logger: logger.With().Str("component", "coach_client").Logger(),
	}, nil
}

const coachSystemPrompt = "You are an experienced golf coach and course strategist. " +
	"Always respond with a single JSON object and nothing else."

// Analyze sends the assembled coaching prompt and returns the parsed reply
// together with the verbatim JSON document for persistence. A reply that
// does not conform to the response schema is a hard failure; the call is
// never retried here.
func (c *CoachClient) Analyze(ctx context.Context, prompt string) (golf.AnalysisResult, json.RawMessage, error) {
	content, err := c.complete(ctx, "analyze", c.cfg.Model, prompt, nil)
	if err != nil {
		return golf.AnalysisResult{}, nil, err
	}

	result, raw, err := ParseAnalysis(content)
	if err != nil {
		modelFailures.WithLabelValues("analyze", c.cfg.Model).Inc()
		return golf.AnalysisResult{}, nil, err
	}
	return result, raw, nil
}

// ExtractRounds runs the scorecard images through the vision model and
// returns the best-effort structured rounds. Callers treat any error as
// "no extracted data", not as a request failure.
func (c *CoachClient) ExtractRounds(ctx context.Context, images []Image) ([]golf.Round, error) {
	if len(images) == 0 {
		return nil, nil
	}

	content, err := c.complete(ctx, "extract", c.cfg.VisionModel, extractionPrompt, images)
	if err != nil {
		return nil, err
	}

	return parseExtractedRounds(content)
}

// CourseStrategy sends a course-strategy prompt (optionally with one
// scorecard image) and returns the raw validated JSON object.
func (c *CoachClient) CourseStrategy(ctx context.Context, prompt string, image *Image) (json.RawMessage, error) {
	var images []Image
	if image != nil {
		images = []Image{*image}
	}

	content, err := c.complete(ctx, "course_strategy", c.cfg.VisionModel, prompt, images)
	if err != nil {
		return nil, err
	}

	return ParseCourseStrategy(content)
}

func (c *CoachClient) complete(parent context.Context, operation, model, prompt string, images []Image) (string, error) {
	ctx, span := c.tracer.Start(parent, "ai."+operation, trace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("image_count", len(images)),
	))
	defer span.End()

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(images) == 0 {
		user.Content = prompt
	} else {
		parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: prompt}}
		for _, img := range images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURI(img),
					Detail: openai.ImageURLDetailHigh,
				},
			})
		}
		user.MultiContent = parts
	}

	request := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: coachSystemPrompt},
			user,
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	modelDuration.WithLabelValues(operation, model).Observe(time.Since(start).Seconds())
	if err != nil {
		modelFailures.WithLabelValues(operation, model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("model %s: %w", operation, err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("model %s: no choices returned", operation)
		modelFailures.WithLabelValues(operation, model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	c.logger.Debug().
		Str("operation", operation).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("model call completed")

	return resp.Choices[0].Message.Content, nil
}

func dataURI(img Image) string {
	mime := img.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
