package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/models"
)

// CourseStrategyRepository stores generated course strategy guides.
type CourseStrategyRepository interface {
	Create(ctx context.Context, strategy *models.CourseStrategy) error
	GetByID(ctx context.Context, id string) (models.CourseStrategy, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CourseStrategy, error)
}

type courseStrategyRepository struct {
	db *gorm.DB
}

// NewCourseStrategyRepository constructs a course strategy repository.
func NewCourseStrategyRepository(db *gorm.DB) CourseStrategyRepository {
	return &courseStrategyRepository{db: db}
}

func (r *courseStrategyRepository) Create(ctx context.Context, strategy *models.CourseStrategy) error {
	return r.db.WithContext(ctx).Create(strategy).Error
}

func (r *courseStrategyRepository) GetByID(ctx context.Context, id string) (models.CourseStrategy, error) {
	var strategy models.CourseStrategy
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&strategy).Error; err != nil {
		return models.CourseStrategy{}, err
	}

	return strategy, nil
}

func (r *courseStrategyRepository) ListByUser(ctx context.Context, userID uint) ([]models.CourseStrategy, error) {
	var strategies []models.CourseStrategy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strategies).Error
	if err != nil {
		return nil, err
	}

	return strategies, nil
}
