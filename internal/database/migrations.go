package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/chrono-planner-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the ownership-scoped queries.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		// Schedules are listed per user ordered by time
		{&models.Schedule{}, "idx_schedules_user_time", "user_id, time"},
		// Uploads are listed per user newest first
		{&models.Upload{}, "idx_uploads_user_created", "user_id, created_at"},
		// Tasks are joined through their schedule
		{&models.Task{}, "idx_tasks_schedule_completed", "schedule_id, completed"},
		{&models.Recommendation{}, "idx_recommendations_user_created", "user_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "name", idx.name, "table", stmt.Schema.Table, "columns", idx.columns)
	}

	return nil
}
