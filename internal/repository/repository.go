package repository

import (
	"context"

	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername reports whether a username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// AwardPoints adds points to a user and recomputes the level
	AwardPoints(ctx context.Context, userID uint64, points int) (*models.User, error)
}

// ScheduleRepository defines the interface for schedule data access
type ScheduleRepository interface {
	// Create creates a new schedule
	Create(ctx context.Context, schedule *models.Schedule) error

	// ListByUser lists a user's schedules with their tasks, ordered by time.
	// A nil page returns every schedule.
	ListByUser(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Schedule, error)

	// FindOwned finds a schedule by ID that belongs to userID
	FindOwned(ctx context.Context, id, userID uint64) (*models.Schedule, error)
}

// TaskRepository defines the interface for task data access.
// Every lookup is scoped through the owning schedule's user.
type TaskRepository interface {
	// Create creates a task together with any nested uploads
	Create(ctx context.Context, task *models.Task, uploads []models.Upload) error

	// ListByUser lists the user's tasks with schedule and uploads
	ListByUser(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Task, error)

	// FindOwned finds a task by ID whose schedule belongs to userID
	FindOwned(ctx context.Context, id, userID uint64, preload ...string) (*models.Task, error)

	// Update saves the task. When completing is true the task is flipped to
	// completed only if it was not already, and on that transition points
	// are awarded to ownerID in the same transaction.
	Update(ctx context.Context, task *models.Task, completing bool, ownerID uint64, points int) (awarded bool, err error)

	// DeleteOwned soft deletes a task owned by userID and reports whether a row was removed
	DeleteOwned(ctx context.Context, id, userID uint64) (bool, error)

	// ListPending lists up to limit incomplete tasks of the user
	ListPending(ctx context.Context, userID uint64, limit int) ([]models.Task, error)

	// UserIDsWithPending lists users that have at least one incomplete task
	UserIDsWithPending(ctx context.Context) ([]uint64, error)
}

// UploadRepository defines the interface for upload data access
type UploadRepository interface {
	// Create records an upload
	Create(ctx context.Context, upload *models.Upload) error

	// ListByUser lists a user's uploads, newest first
	ListByUser(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Upload, error)

	// FindByID finds an upload by ID regardless of owner
	FindByID(ctx context.Context, id uint64) (*models.Upload, error)

	// Delete soft deletes an upload
	Delete(ctx context.Context, id uint64) error
}

// RecommendationRepository defines the interface for companion messages
type RecommendationRepository interface {
	// Create stores a message
	Create(ctx context.Context, rec *models.Recommendation) error

	// ListRecent returns the user's latest messages, newest first
	ListRecent(ctx context.Context, userID uint64, limit int) ([]models.Recommendation, error)
}
