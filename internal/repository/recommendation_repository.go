package repository

import (
	"context"

	"github.com/yukikurage/chrono-planner-api/internal/models"
	"gorm.io/gorm"
)

type GormRecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &GormRecommendationRepository{db: db}
}

func (r *GormRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormRecommendationRepository) ListRecent(ctx context.Context, userID uint64, limit int) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
