package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
	apierrors "github.com/yukikurage/chrono-planner-api/internal/errors"
	"github.com/yukikurage/chrono-planner-api/internal/middleware"
	"github.com/yukikurage/chrono-planner-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks with schedule and uploads
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task under one of the user's schedules
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UploadRequest struct {
		URL  string `json:"url"`
		Type string `json:"type"`
	}
	type CreateTaskRequest struct {
		Title      string          `json:"title"`
		ScheduleID flexID          `json:"scheduleId"`
		Emoji      *string         `json:"emoji"`
		StartTime  *time.Time      `json:"startTime"`
		EndTime    *time.Time      `json:"endTime"`
		Completed  bool            `json:"completed"`
		Uploads    []UploadRequest `json:"uploads"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	uploads := make([]services.UploadRef, 0, len(req.Uploads))
	for _, u := range req.Uploads {
		uploads = append(uploads, services.UploadRef{URL: u.URL, Type: u.Type})
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:     userID,
		ScheduleID: uint64(req.ScheduleID),
		Title:      req.Title,
		Emoji:      req.Emoji,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Completed:  req.Completed,
		Uploads:    uploads,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := parseID(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseTaskPatch(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := parseID(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseTaskPatch maps the fields present in a PATCH body onto an update.
// A JSON null clears the nullable fields.
func parseTaskPatch(raw map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if v, ok := raw["title"]; ok {
		title, ok := v.(string)
		if !ok {
			return input, errors.New("title must be a string")
		}
		input.Title = &title
	}

	if v, ok := raw["emoji"]; ok {
		switch e := v.(type) {
		case nil:
			input.ClearEmoji = true
		case string:
			input.Emoji = &e
		default:
			return input, errors.New("emoji must be a string or null")
		}
	}

	var err error
	if input.StartTime, input.ClearStartTime, err = timeField(raw, "startTime"); err != nil {
		return input, err
	}
	if input.EndTime, input.ClearEndTime, err = timeField(raw, "endTime"); err != nil {
		return input, err
	}

	if v, ok := raw["completed"]; ok {
		completed, ok := v.(bool)
		if !ok {
			return input, errors.New("completed must be a boolean")
		}
		input.Completed = &completed
	}

	if v, ok := raw["scheduleId"]; ok {
		id, err := idFromAny(v)
		if err != nil {
			return input, errors.New("scheduleId is invalid")
		}
		input.ScheduleID = &id
	}

	return input, nil
}

func timeField(raw map[string]any, key string) (*time.Time, bool, error) {
	v, ok := raw[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, false, errors.New(key + " must be an RFC3339 string or null")
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false, errors.New(key + " must be an RFC3339 string or null")
	}
	return &parsed, false, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.MissingField(c, "title")
	case errors.Is(err, services.ErrScheduleRequired):
		apierrors.MissingField(c, "scheduleId")
	case errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidTimeRange),
		errors.Is(err, services.ErrNestedUploadNoURL),
		errors.Is(err, services.ErrTooManyNestedFiles):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrScheduleForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
