package repository

import (
	"context"

	"github.com/yukikurage/chrono-planner-api/internal/database"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its nested uploads atomically
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, uploads []models.Upload) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		if len(uploads) == 0 {
			return nil
		}

		for i := range uploads {
			uploads[i].TaskID = &task.ID
		}
		if err := tx.Create(&uploads).Error; err != nil {
			return err
		}
		task.Uploads = uploads
		return nil
	})
}

// ListByUser lists the user's tasks with schedule and uploads
func (r *GormTaskRepository) ListByUser(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(userID)).
		Preload("Schedule").
		Preload("Uploads").
		Order("tasks.id ASC")

	if page != nil {
		query = query.Scopes(database.Paginate(*page))
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOwned finds a task by ID with optional preloading
func (r *GormTaskRepository) FindOwned(ctx context.Context, id, userID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Update saves the task and awards points on a completion transition
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, completing bool, ownerID uint64, points int) (bool, error) {
	awarded := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if completing {
			// Guarded flip so concurrent completions award once.
			res := tx.Model(&models.Task{}).
				Where("id = ? AND completed = ?", task.ID, false).
				Update("completed", true)
			if res.Error != nil {
				return res.Error
			}
			awarded = res.RowsAffected == 1
		}

		// Zero values must be written; a soft-deleted row must stay deleted.
		err := tx.Model(task).
			Select("schedule_id", "title", "emoji", "start_time", "end_time", "completed").
			Updates(task).Error
		if err != nil {
			return err
		}

		if awarded && points > 0 {
			return awardPoints(tx, ownerID, points)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return awarded, nil
}

// DeleteOwned soft deletes a task owned by userID
func (r *GormTaskRepository) DeleteOwned(ctx context.Context, id, userID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Where("tasks.id = ?", id).
		Delete(&models.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPending lists up to limit incomplete tasks of the user
func (r *GormTaskRepository) ListPending(ctx context.Context, userID uint64, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(userID)).
		Where("tasks.completed = ?", false).
		Order("tasks.start_time ASC").
		Order("tasks.id ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// UserIDsWithPending lists users that have at least one incomplete task
func (r *GormTaskRepository) UserIDsWithPending(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Joins("JOIN schedules ON schedules.id = tasks.schedule_id AND schedules.deleted_at IS NULL").
		Where("tasks.completed = ?", false).
		Distinct().
		Pluck("schedules.user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
