package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/models"
)

// AnalysisRepository stores completed analyses and the rounds that fed them.
// CreateWithRounds runs inside the transaction it is handed so that the
// analysis, its round records, and the caller's credit update commit together.
type AnalysisRepository interface {
	CreateWithRounds(tx *gorm.DB, analysis *models.Analysis, rounds []models.RoundRecord) error
	GetByID(ctx context.Context, id string) (models.Analysis, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository constructs an analysis repository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) CreateWithRounds(tx *gorm.DB, analysis *models.Analysis, rounds []models.RoundRecord) error {
	if err := tx.Create(analysis).Error; err != nil {
		return err
	}
	for i := range rounds {
		rounds[i].AnalysisID = analysis.ID
	}
	if len(rounds) > 0 {
		if err := tx.Create(&rounds).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *analysisRepository) GetByID(ctx context.Context, id string) (models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&analysis).Error; err != nil {
		return models.Analysis{}, err
	}

	return analysis, nil
}

func (r *analysisRepository) ListByUser(ctx context.Context, userID uint) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, err
	}

	return analyses, nil
}
