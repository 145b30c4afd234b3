package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/repository"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrTimeRequired  = errors.New("time is required")
	ErrInvalidHour   = errors.New("hour must be between 0 and 23")
)

// ScheduleService handles schedule business logic
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo}
}

// CreateScheduleInput represents input for creating a schedule
type CreateScheduleInput struct {
	UserID      uint64
	Title       string
	Description *string
	Time        *time.Time
	Icon        string
	Hour        *int
}

// ListSchedules returns the user's schedules with their tasks
func (s *ScheduleService) ListSchedules(ctx context.Context, userID uint64, page *utils.PaginationParams) ([]models.Schedule, error) {
	schedules, err := s.scheduleRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// CreateSchedule creates a schedule. Without an explicit hour, the hour of
// Time in the offset it was sent with is used.
func (s *ScheduleService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*models.Schedule, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Time == nil || input.Time.IsZero() {
		return nil, ErrTimeRequired
	}

	hour := input.Time.Hour()
	if input.Hour != nil {
		if *input.Hour < 0 || *input.Hour > 23 {
			return nil, ErrInvalidHour
		}
		hour = *input.Hour
	}

	schedule := &models.Schedule{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		Time:        *input.Time,
		Icon:        input.Icon,
		Hour:        hour,
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	return schedule, nil
}
