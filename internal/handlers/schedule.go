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

type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// ListSchedules returns the current user's schedules ordered by time
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	schedules, err := h.scheduleService.ListSchedules(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleDTOs(schedules))
}

// CreateSchedule creates a schedule for the current user
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateScheduleRequest struct {
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		Time        *time.Time `json:"time"`
		Icon        string     `json:"icon"`
		Hour        *int       `json:"hour"`
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), services.CreateScheduleInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Icon:        req.Icon,
		Hour:        req.Hour,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTitleRequired):
			apierrors.MissingField(c, "title")
		case errors.Is(err, services.ErrTimeRequired):
			apierrors.MissingField(c, "time")
		case errors.Is(err, services.ErrInvalidHour):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToScheduleDTO(*schedule))
}
