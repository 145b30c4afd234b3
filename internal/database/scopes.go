package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy restricts a task query to tasks whose schedule belongs to userID.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		schedules := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Schedule{}).
			Select("id").
			Where("user_id = ?", userID)
		return db.Where("tasks.schedule_id IN (?)", schedules)
	}
}
