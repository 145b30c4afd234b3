package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
)

func (suite *APITestSuite) TestSchedules_CreateAndList() {
	cookie := suite.login("alice", "pw")

	w := suite.do(http.MethodPost, "/api/schedules", gin.H{
		"title":       "Evening",
		"description": "wind down",
		"time":        "2026-04-01T21:15:00+09:00",
	}, cookie)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created dto.ScheduleDTO
	suite.decode(w, &created)
	suite.Equal(21, created.Hour)
	suite.Equal("wind down", *created.Description)
	suite.NotNil(created.Tasks)

	morning := suite.createSchedule(cookie, "Morning")
	suite.createTask(cookie, morning, "Stretch")

	w = suite.do(http.MethodGet, "/api/schedules", nil, cookie)
	suite.Equal(http.StatusOK, w.Code)

	var list []dto.ScheduleDTO
	suite.decode(w, &list)
	suite.Require().Len(list, 2)
	suite.Equal("Morning", list[0].Title)
	suite.Require().Len(list[0].Tasks, 1)
	suite.Equal("Stretch", list[0].Tasks[0].Title)

	other := suite.login("bob", "pw")
	w = suite.do(http.MethodGet, "/api/schedules", nil, other)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *APITestSuite) TestSchedules_Validation() {
	cookie := suite.login("alice", "pw")

	w := suite.do(http.MethodPost, "/api/schedules", gin.H{"time": "2026-04-01T09:00:00Z"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/schedules", gin.H{"title": "No time"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/schedules", gin.H{"title": "Bad hour", "time": "2026-04-01T09:00:00Z", "hour": 24}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/schedules", gin.H{"title": "x", "time": "2026-04-01T09:00:00Z"}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestTasks_CreateWithUploadsAndList() {
	cookie := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(cookie, "Work")

	w := suite.do(http.MethodPost, "/api/tasks", gin.H{
		"title":      "Report",
		"scheduleId": fmt.Sprint(scheduleID),
		"emoji":      "📝",
		"startTime":  "2026-04-01T09:00:00Z",
		"endTime":    "2026-04-01T10:00:00Z",
		"uploads":    []gin.H{{"url": "https://cdn.test/a.png", "type": "image/png"}},
	}, cookie)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	suite.Equal(scheduleID, task.ScheduleID)
	suite.Require().NotNil(task.Schedule)
	suite.Equal("Work", task.Schedule.Title)
	suite.Require().Len(task.Uploads, 1)
	suite.Equal("https://cdn.test/a.png", task.Uploads[0].URL)

	w = suite.do(http.MethodGet, "/api/tasks", nil, cookie)
	suite.Equal(http.StatusOK, w.Code)

	var list []dto.TaskDTO
	suite.decode(w, &list)
	suite.Len(list, 1)

	w = suite.do(http.MethodGet, "/api/tasks?page=2&limit=1", nil, cookie)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *APITestSuite) TestTasks_CreateValidation() {
	cookie := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(cookie, "Work")

	w := suite.do(http.MethodPost, "/api/tasks", gin.H{"scheduleId": scheduleID}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/tasks", gin.H{"title": "Orphan"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/tasks", gin.H{"title": "Bad id", "scheduleId": "abc"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestTasks_CreateOnForeignSchedule() {
	owner := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(owner, "Private")
	intruder := suite.login("mallory", "pw")

	w := suite.do(http.MethodPost, "/api/tasks", gin.H{"title": "Sneaky", "scheduleId": scheduleID}, intruder)
	suite.Equal(http.StatusForbidden, w.Code)

	var count int64
	suite.db.Table("tasks").Count(&count)
	suite.Zero(count)
}

func (suite *APITestSuite) TestTasks_CompleteAwardsPoints() {
	cookie := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(cookie, "Gym")
	taskID := suite.createTask(cookie, scheduleID, "Lift")
	path := fmt.Sprintf("/api/tasks/%d", taskID)

	w := suite.do(http.MethodPatch, path, gin.H{"completed": true}, cookie)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	suite.True(task.Completed)

	// Completing again awards nothing
	w = suite.do(http.MethodPatch, path, gin.H{"completed": true}, cookie)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/auth/status", nil, cookie)
	var status dto.UserStatusDTO
	suite.decode(w, &status)
	suite.Equal(10, status.Points)
	suite.Equal(1, status.Level)
}

func (suite *APITestSuite) TestTasks_PatchFields() {
	cookie := suite.login("alice", "pw")
	first := suite.createSchedule(cookie, "First")
	second := suite.createSchedule(cookie, "Second")
	taskID := suite.createTask(cookie, first, "Draft")
	path := fmt.Sprintf("/api/tasks/%d", taskID)

	w := suite.do(http.MethodPatch, path, gin.H{
		"title":      "Final",
		"emoji":      nil,
		"startTime":  "2026-04-02T08:00:00Z",
		"scheduleId": second,
	}, cookie)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	suite.Equal("Final", task.Title)
	suite.Nil(task.Emoji)
	suite.Require().NotNil(task.StartTime)
	suite.Equal(second, task.ScheduleID)

	w = suite.do(http.MethodPatch, path, gin.H{"title": ""}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, path, gin.H{"startTime": "yesterday"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, path, gin.H{"completed": "yes"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, "/api/tasks/abc", gin.H{"title": "x"}, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestTasks_ForeignUserCannotTouch() {
	owner := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(owner, "Mine")
	taskID := suite.createTask(owner, scheduleID, "Secret")
	path := fmt.Sprintf("/api/tasks/%d", taskID)

	intruder := suite.login("mallory", "pw")
	intruderSchedule := suite.createSchedule(intruder, "Theirs")

	w := suite.do(http.MethodPatch, path, gin.H{"title": "pwned"}, intruder)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, path, nil, intruder)
	suite.Equal(http.StatusNotFound, w.Code)

	// Owner cannot move the task onto someone else's schedule
	w = suite.do(http.MethodPatch, path, gin.H{"scheduleId": intruderSchedule}, owner)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/tasks", nil, owner)
	var list []dto.TaskDTO
	suite.decode(w, &list)
	suite.Require().Len(list, 1)
	suite.Equal("Secret", list[0].Title)
	suite.Equal(scheduleID, list[0].ScheduleID)
}

func (suite *APITestSuite) TestTasks_Delete() {
	cookie := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(cookie, "Work")
	taskID := suite.createTask(cookie, scheduleID, "Temp")
	path := fmt.Sprintf("/api/tasks/%d", taskID)

	w := suite.do(http.MethodDelete, path, nil, cookie)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())

	w = suite.do(http.MethodDelete, path, nil, cookie)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPatch, path, gin.H{"title": "ghost"}, cookie)
	suite.Equal(http.StatusNotFound, w.Code)
}
