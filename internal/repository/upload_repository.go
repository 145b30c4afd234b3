package repository

import (
	"context"

	"github.com/yukikurage/chrono-planner-api/internal/database"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
	"gorm.io/gorm"
)

// GormUploadRepository is a GORM implementation of UploadRepository
type GormUploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository creates a new UploadRepository
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &GormUploadRepository{db: db}
}

// Create records an upload
func (r *GormUploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

// ListByUser lists a user's uploads, newest first
func (r *GormUploadRepository) ListByUser(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Upload, error) {
	var uploads []models.Upload

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")

	if page != nil {
		query = query.Scopes(database.Paginate(*page))
	}

	if err := query.Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

// FindByID finds an upload by ID
func (r *GormUploadRepository) FindByID(ctx context.Context, id uint64) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.WithContext(ctx).First(&upload, id).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// Delete soft deletes an upload
func (r *GormUploadRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&models.Upload{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
