package repository

import (
	"context"

	"github.com/yukikurage/chrono-planner-api/internal/database"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
	"gorm.io/gorm"
)

// GormScheduleRepository is a GORM implementation of ScheduleRepository
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// Create creates a new schedule
func (r *GormScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// ListByUser lists a user's schedules with their tasks
func (r *GormScheduleRepository) ListByUser(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Schedule, error) {
	var schedules []models.Schedule

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.id ASC")
		}).
		Order("time ASC").
		Order("id ASC")

	if page != nil {
		query = query.Scopes(database.Paginate(*page))
	}

	if err := query.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// FindOwned finds a schedule by ID that belongs to userID
func (r *GormScheduleRepository) FindOwned(ctx context.Context, id, userID uint64) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}
