package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/golf"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
	"github.com/fairwaylabs/caddie-api/pkg/ai"
	"github.com/fairwaylabs/caddie-api/pkg/pdfgen"
)

var (
	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrNotOwner            = errors.New("analysis belongs to another user")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrAuthRequired        = errors.New("authentication required")
	ErrTooManyImages       = errors.New("too many scorecard images")
	ErrImageTooLarge       = errors.New("scorecard image too large")
	ErrUploadTooLarge      = errors.New("combined upload too large")
	ErrNotAnImage          = errors.New("file is not a supported image")
	ErrUnknownDocument     = errors.New("unknown document type")
)

// Upload limits for scorecard images.
const (
	maxImages         = 10
	maxImageBytes     = 10 << 20
	maxUploadBytes    = 50 << 20
	recentScoresLimit = 20
)

// CoachModel is the slice of the model client the services call.
type CoachModel interface {
	Analyze(ctx context.Context, prompt string) (golf.AnalysisResult, json.RawMessage, error)
	ExtractRounds(ctx context.Context, images []ai.Image) ([]golf.Round, error)
	CourseStrategy(ctx context.Context, prompt string, image *ai.Image) (json.RawMessage, error)
}

// AnalysisService runs the analysis pipeline: gather rounds, aggregate
// statistics, build the prompt, call the model, and persist the result with
// the credit spend in one transaction.
type AnalysisService interface {
	Analyze(ctx context.Context, userID *uint, req dto.AnalyzeRequest, images []ai.Image) (dto.AnalyzeResponse, error)
	Get(ctx context.Context, userID uint, id string) (dto.AnalysisDetail, error)
	List(ctx context.Context, userID uint) ([]dto.AnalysisSummary, error)
	RenderPDF(ctx context.Context, userID uint, id string, docType string) ([]byte, error)
}

type analysisService struct {
	db       *gorm.DB
	users    repository.UserRepository
	analyses repository.AnalysisRepository
	coach    CoachModel
	handicap HandicapService
	logger   zerolog.Logger
}

// NewAnalysisService constructs the analysis orchestrator.
func NewAnalysisService(db *gorm.DB, users repository.UserRepository, analyses repository.AnalysisRepository, coach CoachModel, handicap HandicapService, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		db:       db,
		users:    users,
		analyses: analyses,
		coach:    coach,
		handicap: handicap,
		logger:   logger.With().Str("component", "analysis_service").Logger(),
	}
}

func (s *analysisService) Analyze(ctx context.Context, userID *uint, req dto.AnalyzeRequest, images []ai.Image) (dto.AnalyzeResponse, error) {
	if err := ValidateImages(images); err != nil {
		return dto.AnalyzeResponse{}, err
	}

	var user models.User
	if !req.Preview {
		if userID == nil {
			return dto.AnalyzeResponse{}, ErrAuthRequired
		}
		var err error
		user, err = s.users.GetByID(ctx, *userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.AnalyzeResponse{}, ErrUserNotFound
			}
			return dto.AnalyzeResponse{}, err
		}
		if !user.IsPro() && user.Credits < 1 {
			return dto.AnalyzeResponse{}, ErrInsufficientCredits
		}
	}

	rounds, source, err := s.gatherRounds(ctx, req, images)
	if err != nil {
		return dto.AnalyzeResponse{}, err
	}

	stats := golf.Aggregate(rounds)
	analysisReq := golf.AnalysisRequest{
		Name:        req.Name,
		Handicap:    req.Handicap,
		HomeCourse:  req.CourseName,
		MissPattern: req.MissPattern,
		Strengths:   req.Strengths,
		Rounds:      rounds,
		Stats:       &stats,
	}
	// ExtractLayout picks the dominant course itself when no name is given.
	if layout, ok := golf.ExtractLayout(req.CourseName, rounds); ok {
		analysisReq.Layout = &layout
	}

	prompt := golf.BuildAnalysisPrompt(analysisReq)

	result, raw, err := s.coach.Analyze(ctx, prompt)
	if err != nil {
		return dto.AnalyzeResponse{}, err
	}

	resp := dto.AnalyzeResponse{
		Success:  true,
		Analysis: result,
		Rounds:   rounds,
		Source:   source,
	}

	if req.Preview {
		return resp, nil
	}

	analysis := models.Analysis{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		GolferName: req.Name,
		CourseName: req.CourseName,
		Handicap:   req.Handicap,
		Source:     source,
		RoundCount: len(rounds),
		Result:     datatypes.JSON(raw),
	}
	records, err := roundRecords(rounds)
	if err != nil {
		return dto.AnalyzeResponse{}, err
	}

	// The analysis, its rounds, and the credit spend commit or roll back
	// together.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.analyses.CreateWithRounds(tx, &analysis, records); err != nil {
			return err
		}
		if user.IsPro() {
			return nil
		}
		spend := tx.Model(&models.User{}).
			Where("id = ? AND credits > 0", user.ID).
			UpdateColumn("credits", gorm.Expr("credits - 1"))
		if spend.Error != nil {
			return spend.Error
		}
		if spend.RowsAffected == 0 {
			return ErrInsufficientCredits
		}
		return nil
	})
	if err != nil {
		return dto.AnalyzeResponse{}, err
	}

	resp.AnalysisID = analysis.ID
	if !user.IsPro() {
		remaining := user.Credits - 1
		resp.CreditsRemaining = &remaining
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("analysis_id", analysis.ID).
		Str("source", source).
		Int("rounds", len(rounds)).
		Msg("analysis persisted")

	return resp, nil
}

// gatherRounds prefers the handicap service when a GHIN number is supplied;
// fetch failures there abort the request. Scorecard extraction failures
// degrade to an analysis over the profile fields alone.
func (s *analysisService) gatherRounds(ctx context.Context, req dto.AnalyzeRequest, images []ai.Image) ([]golf.Round, string, error) {
	if req.GHINNumber != "" {
		scores, err := s.handicap.RecentScores(ctx, req.GHINNumber, recentScoresLimit)
		if err != nil {
			return nil, "", fmt.Errorf("fetch handicap service scores: %w", err)
		}
		return scores.Rounds, models.SourceHandicapService, nil
	}

	if len(images) > 0 {
		rounds, err := s.coach.ExtractRounds(ctx, images)
		if err != nil {
			s.logger.Warn().Err(err).Msg("scorecard extraction failed, continuing without rounds")
			return nil, models.SourceNone, nil
		}
		return rounds, models.SourceScorecard, nil
	}

	return nil, models.SourceNone, nil
}

func (s *analysisService) Get(ctx context.Context, userID uint, id string) (dto.AnalysisDetail, error) {
	analysis, err := s.ownedAnalysis(ctx, userID, id)
	if err != nil {
		return dto.AnalysisDetail{}, err
	}

	return dto.NewAnalysisDetail(analysis), nil
}

func (s *analysisService) List(ctx context.Context, userID uint) ([]dto.AnalysisSummary, error) {
	analyses, err := s.analyses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewAnalysisSummarySlice(analyses), nil
}

func (s *analysisService) RenderPDF(ctx context.Context, userID uint, id string, docType string) ([]byte, error) {
	analysis, err := s.ownedAnalysis(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result, _, err := ai.ParseAnalysis(string(analysis.Result))
	if err != nil {
		return nil, fmt.Errorf("stored analysis %s: %w", analysis.ID, err)
	}

	golfer := pdfgen.Golfer{
		Name:       analysis.GolferName,
		CourseName: analysis.CourseName,
		Handicap:   analysis.Handicap,
	}

	switch docType {
	case "strategy":
		return pdfgen.StrategyCard(result, golfer)
	case "practice":
		return pdfgen.PracticePlan(result, golfer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, docType)
	}
}

func (s *analysisService) ownedAnalysis(ctx context.Context, userID uint, id string) (models.Analysis, error) {
	analysis, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Analysis{}, ErrAnalysisNotFound
		}
		return models.Analysis{}, err
	}
	if analysis.UserID != userID {
		return models.Analysis{}, ErrNotOwner
	}

	return analysis, nil
}

// ValidateImages enforces the upload limits and sniffs content types.
func ValidateImages(images []ai.Image) error {
	if len(images) > maxImages {
		return ErrTooManyImages
	}

	var total int
	for _, img := range images {
		if len(img.Data) > maxImageBytes {
			return ErrImageTooLarge
		}
		total += len(img.Data)

		kind := mimetype.Detect(img.Data)
		if !strings.HasPrefix(kind.String(), "image/") {
			return ErrNotAnImage
		}
	}
	if total > maxUploadBytes {
		return ErrUploadTooLarge
	}

	return nil
}

func roundRecords(rounds []golf.Round) ([]models.RoundRecord, error) {
	records := make([]models.RoundRecord, 0, len(rounds))
	for _, round := range rounds {
		payload, err := json.Marshal(round)
		if err != nil {
			return nil, err
		}
		record := models.RoundRecord{
			CourseName: round.CourseName,
			TotalScore: round.TotalScore,
			Payload:    datatypes.JSON(payload),
		}
		if !round.Date.IsZero() {
			played := round.Date
			record.PlayedAt = &played
		}
		records = append(records, record)
	}

	return records, nil
}
