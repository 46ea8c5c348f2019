package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
	"github.com/fairwaylabs/caddie-api/pkg/ghin"
)

var ErrGolferNotFound = errors.New("golfer not found")

// GolferDirectory resolves golfer records from the handicap service.
type GolferDirectory interface {
	LookupGolfer(ctx context.Context, ghinNumber string) (ghin.Golfer, error)
}

// UserService manages profile data, credit balances, and handicap service links.
type UserService interface {
	GetProfile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.ProfileUpdateRequest) (dto.UserResponse, error)
	GetCredits(ctx context.Context, userID uint) (dto.CreditsResponse, error)
	LinkGHIN(ctx context.Context, userID uint, ghinNumber string) (dto.UserResponse, error)
}

type userService struct {
	users   repository.UserRepository
	golfers GolferDirectory
	logger  zerolog.Logger
}

// NewUserService constructs a user service.
func NewUserService(users repository.UserRepository, golfers GolferDirectory, logger zerolog.Logger) UserService {
	return &userService{
		users:   users,
		golfers: golfers,
		logger:  logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Handicap != nil {
		user.Handicap = req.Handicap
	}
	if req.HomeCourse != nil {
		user.HomeCourse = *req.HomeCourse
	}
	if req.MissPattern != nil {
		user.MissPattern = *req.MissPattern
	}
	if req.Strengths != nil {
		user.Strengths = *req.Strengths
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) GetCredits(ctx context.Context, userID uint) (dto.CreditsResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.CreditsResponse{}, err
	}

	return dto.CreditsResponse{
		Credits:          user.Credits,
		SubscriptionTier: user.SubscriptionTier,
		Unlimited:        user.IsPro(),
	}, nil
}

func (s *userService) LinkGHIN(ctx context.Context, userID uint, ghinNumber string) (dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	golfer, err := s.golfers.LookupGolfer(ctx, ghinNumber)
	if err != nil {
		if errors.Is(err, ghin.ErrGolferNotFound) {
			return dto.UserResponse{}, ErrGolferNotFound
		}
		return dto.UserResponse{}, err
	}

	user.GHINNumber = &golfer.GHINNumber
	if golfer.HandicapIndex != nil {
		user.Handicap = golfer.HandicapIndex
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Str("ghin_number", golfer.GHINNumber).Msg("linked handicap service account")

	return dto.NewUserResponse(user), nil
}

func (s *userService) getUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}
