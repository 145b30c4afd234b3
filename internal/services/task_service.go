package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/repository"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrScheduleRequired   = errors.New("scheduleId is required")
	ErrScheduleForbidden  = errors.New("schedule does not belong to the user")
	ErrTitleEmpty         = errors.New("title cannot be empty")
	ErrInvalidTimeRange   = errors.New("endTime must not be before startTime")
	ErrNestedUploadNoURL  = errors.New("upload url is required")
	ErrTooManyNestedFiles = errors.New("too many uploads")
)

const maxNestedUploads = 20

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	scheduleRepo repository.ScheduleRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, scheduleRepo repository.ScheduleRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		scheduleRepo: scheduleRepo,
	}
}

// UploadRef is an already stored file attached on task creation
type UploadRef struct {
	URL  string
	Type string
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID     uint64
	ScheduleID uint64
	Title      string
	Emoji      *string
	StartTime  *time.Time
	EndTime    *time.Time
	Completed  bool
	Uploads    []UploadRef
}

// UpdateTaskInput represents a partial update. Nil fields are left unchanged;
// the Clear flags set the nullable columns to NULL.
type UpdateTaskInput struct {
	Title          *string
	Emoji          *string
	ClearEmoji     bool
	StartTime      *time.Time
	ClearStartTime bool
	EndTime        *time.Time
	ClearEndTime   bool
	Completed      *bool
	ScheduleID     *uint64
}

// ListTasks returns the user's tasks with schedule and uploads
func (s *TaskService) ListTasks(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a task under one of the user's schedules
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.ScheduleID == 0 {
		return nil, ErrScheduleRequired
	}
	if err := validateRange(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	if len(input.Uploads) > maxNestedUploads {
		return nil, ErrTooManyNestedFiles
	}

	if err := s.ensureScheduleOwner(ctx, input.ScheduleID, input.UserID); err != nil {
		return nil, err
	}

	uploads := make([]models.Upload, 0, len(input.Uploads))
	for _, ref := range input.Uploads {
		url := strings.TrimSpace(ref.URL)
		if url == "" {
			return nil, ErrNestedUploadNoURL
		}
		uploads = append(uploads, models.Upload{
			UserID: input.UserID,
			URL:    url,
			Type:   ref.Type,
		})
	}

	task := &models.Task{
		ScheduleID: input.ScheduleID,
		Title:      title,
		Emoji:      input.Emoji,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Completed:  input.Completed,
	}

	if err := s.taskRepo.Create(ctx, task, uploads); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findOwned(ctx, task.ID, input.UserID)
}

// UpdateTask applies a partial update to a task owned by userID. Completing
// a task for the first time awards points to the owner.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.ClearEmoji {
		task.Emoji = nil
	} else if input.Emoji != nil {
		task.Emoji = input.Emoji
	}
	if input.ClearStartTime {
		task.StartTime = nil
	} else if input.StartTime != nil {
		task.StartTime = input.StartTime
	}
	if input.ClearEndTime {
		task.EndTime = nil
	} else if input.EndTime != nil {
		task.EndTime = input.EndTime
	}
	if err := validateRange(task.StartTime, task.EndTime); err != nil {
		return nil, err
	}

	if input.ScheduleID != nil && *input.ScheduleID != task.ScheduleID {
		if err := s.ensureScheduleOwner(ctx, *input.ScheduleID, userID); err != nil {
			return nil, err
		}
		task.ScheduleID = *input.ScheduleID
	}

	completing := false
	if input.Completed != nil {
		completing = *input.Completed && !task.Completed
		task.Completed = *input.Completed
	}

	if _, err := s.taskRepo.Update(ctx, task, completing, userID, constants.PointsPerCompletedTask); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findOwned(ctx, task.ID, userID)
}

// DeleteTask soft deletes a task owned by userID
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID uint64) error {
	deleted, err := s.taskRepo.DeleteOwned(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) findOwned(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, taskID, userID, "Schedule", "Uploads")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureScheduleOwner verifies that a schedule exists and belongs to userID
func (s *TaskService) ensureScheduleOwner(ctx context.Context, scheduleID, userID uint64) error {
	_, err := s.scheduleRepo.FindOwned(ctx, scheduleID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleForbidden
		}
		return fmt.Errorf("failed to verify schedule: %w", err)
	}
	return nil
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidTimeRange
	}
	return nil
}
