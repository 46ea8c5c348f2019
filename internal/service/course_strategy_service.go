package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/golf"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
	"github.com/fairwaylabs/caddie-api/pkg/ai"
)

var ErrStrategyNotFound = errors.New("course strategy not found")

// CourseStrategyService produces and stores course-specific strategy guides.
type CourseStrategyService interface {
	Generate(ctx context.Context, userID uint, req dto.CourseStrategyRequest, scorecard *ai.Image) (dto.CourseStrategyResponse, error)
	Get(ctx context.Context, userID uint, id string) (dto.CourseStrategyResponse, error)
	List(ctx context.Context, userID uint) ([]dto.CourseStrategyResponse, error)
}

type courseStrategyService struct {
	strategies repository.CourseStrategyRepository
	users      repository.UserRepository
	coach      CoachModel
	logger     zerolog.Logger
}

// NewCourseStrategyService constructs a course strategy service.
func NewCourseStrategyService(strategies repository.CourseStrategyRepository, users repository.UserRepository, coach CoachModel, logger zerolog.Logger) CourseStrategyService {
	return &courseStrategyService{
		strategies: strategies,
		users:      users,
		coach:      coach,
		logger:     logger.With().Str("component", "course_strategy_service").Logger(),
	}
}

func (s *courseStrategyService) Generate(ctx context.Context, userID uint, req dto.CourseStrategyRequest, scorecard *ai.Image) (dto.CourseStrategyResponse, error) {
	if scorecard != nil {
		if err := ValidateImages([]ai.Image{*scorecard}); err != nil {
			return dto.CourseStrategyResponse{}, err
		}
	}

	handicap := req.Handicap
	if handicap == nil {
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			handicap = user.Handicap
		}
	}

	prompt := golf.BuildCourseStrategyPrompt(req.CourseName, req.TeeSet, req.Notes, handicap, scorecard != nil)

	raw, err := s.coach.CourseStrategy(ctx, prompt, scorecard)
	if err != nil {
		return dto.CourseStrategyResponse{}, err
	}

	strategy := models.CourseStrategy{
		ID:         uuid.NewString(),
		UserID:     userID,
		CourseName: req.CourseName,
		TeeSet:     req.TeeSet,
		Notes:      req.Notes,
		Strategy:   datatypes.JSON(raw),
	}
	if err := s.strategies.Create(ctx, &strategy); err != nil {
		return dto.CourseStrategyResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Str("strategy_id", strategy.ID).Str("course", req.CourseName).Msg("course strategy persisted")

	return dto.NewCourseStrategyResponse(strategy), nil
}

func (s *courseStrategyService) Get(ctx context.Context, userID uint, id string) (dto.CourseStrategyResponse, error) {
	strategy, err := s.strategies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseStrategyResponse{}, ErrStrategyNotFound
		}
		return dto.CourseStrategyResponse{}, err
	}
	if strategy.UserID != userID {
		return dto.CourseStrategyResponse{}, ErrNotOwner
	}

	return dto.NewCourseStrategyResponse(strategy), nil
}

func (s *courseStrategyService) List(ctx context.Context, userID uint) ([]dto.CourseStrategyResponse, error) {
	strategies, err := s.strategies.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseStrategyResponseSlice(strategies), nil
}
