package dto

import (
	"time"

	"github.com/yukikurage/chrono-planner-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// UserStatusDTO is the authenticated user's profile with gamification counters
type UserStatusDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Points   int     `json:"points"`
	Level    int     `json:"level"`
}

// LoginResponse is returned after a successful login or signup
type LoginResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// ScheduleDTO represents a schedule in API responses
type ScheduleDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Time        time.Time `json:"time"`
	Icon        string    `json:"icon"`
	Hour        int       `json:"hour"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tasks       []TaskDTO `json:"tasks"`
}

// ScheduleRefDTO is the schedule summary embedded in a task
type ScheduleRefDTO struct {
	ID    uint64    `json:"id"`
	Title string    `json:"title"`
	Time  time.Time `json:"time"`
	Icon  string    `json:"icon"`
	Hour  int       `json:"hour"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID         uint64          `json:"id"`
	ScheduleID uint64          `json:"scheduleId"`
	Title      string          `json:"title"`
	Emoji      *string         `json:"emoji"`
	StartTime  *time.Time      `json:"startTime"`
	EndTime    *time.Time      `json:"endTime"`
	Completed  bool            `json:"completed"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Schedule   *ScheduleRefDTO `json:"schedule,omitempty"`
	Uploads    []UploadDTO     `json:"uploads,omitempty"`
}

// UploadDTO represents an upload in API responses
type UploadDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	TaskID    *uint64   `json:"taskId"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecommendationDTO represents a companion message
type RecommendationDTO struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToUserStatusDTO converts a User model to UserStatusDTO
func ToUserStatusDTO(user models.User) UserStatusDTO {
	return UserStatusDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Points:   user.Points,
		Level:    user.Level,
	}
}

// ToScheduleDTO converts a Schedule model to ScheduleDTO. Tasks is never null.
func ToScheduleDTO(schedule models.Schedule) ScheduleDTO {
	tasks := make([]TaskDTO, len(schedule.Tasks))
	for i, task := range schedule.Tasks {
		tasks[i] = ToTaskDTO(task)
	}

	return ScheduleDTO{
		ID:          schedule.ID,
		UserID:      schedule.UserID,
		Title:       schedule.Title,
		Description: schedule.Description,
		Time:        schedule.Time,
		Icon:        schedule.Icon,
		Hour:        schedule.Hour,
		CreatedAt:   schedule.CreatedAt,
		UpdatedAt:   schedule.UpdatedAt,
		Tasks:       tasks,
	}
}

// ToScheduleDTOs converts a slice of schedules
func ToScheduleDTOs(schedules []models.Schedule) []ScheduleDTO {
	out := make([]ScheduleDTO, len(schedules))
	for i, s := range schedules {
		out[i] = ToScheduleDTO(s)
	}
	return out
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:         task.ID,
		ScheduleID: task.ScheduleID,
		Title:      task.Title,
		Emoji:      task.Emoji,
		StartTime:  task.StartTime,
		EndTime:    task.EndTime,
		Completed:  task.Completed,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}

	// Include schedule if preloaded
	if task.Schedule.ID != 0 {
		dto.Schedule = &ScheduleRefDTO{
			ID:    task.Schedule.ID,
			Title: task.Schedule.Title,
			Time:  task.Schedule.Time,
			Icon:  task.Schedule.Icon,
			Hour:  task.Schedule.Hour,
		}
	}

	if len(task.Uploads) > 0 {
		dto.Uploads = ToUploadDTOs(task.Uploads)
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

// ToUploadDTO converts an Upload model to UploadDTO
func ToUploadDTO(upload models.Upload) UploadDTO {
	return UploadDTO{
		ID:        upload.ID,
		UserID:    upload.UserID,
		TaskID:    upload.TaskID,
		URL:       upload.URL,
		Type:      upload.Type,
		CreatedAt: upload.CreatedAt,
	}
}

// ToUploadDTOs converts a slice of uploads
func ToUploadDTOs(uploads []models.Upload) []UploadDTO {
	out := make([]UploadDTO, len(uploads))
	for i, u := range uploads {
		out[i] = ToUploadDTO(u)
	}
	return out
}

// ToRecommendationDTOs converts companion messages
func ToRecommendationDTOs(recs []models.Recommendation) []RecommendationDTO {
	out := make([]RecommendationDTO, len(recs))
	for i, r := range recs {
		out[i] = RecommendationDTO{
			ID:        r.ID,
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
