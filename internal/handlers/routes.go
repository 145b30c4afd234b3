package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/middleware"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Auth      *AuthHandler
	Schedule  *ScheduleHandler
	Task      *TaskHandler
	Upload    *UploadHandler
	Companion *CompanionHandler
}

// RegisterRoutes mounts the API on r. Everything except login, logout and
// check-user sits behind the auth gate.
func RegisterRoutes(r gin.IRouter, h Handlers, gate *middleware.AuthGate, loginLimiter *middleware.IPRateLimiter) {
	requireAuth := middleware.RequireAuth(gate)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.GET("/check-user", h.Auth.CheckUser)
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/status", requireAuth, h.Auth.Status)
	}

	// Schedule routes (protected)
	schedules := r.Group("/schedules")
	schedules.Use(requireAuth)
	{
		schedules.GET("", h.Schedule.ListSchedules)
		schedules.POST("", h.Schedule.CreateSchedule)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", h.Task.ListTasks)
		tasks.POST("", h.Task.CreateTask)
		tasks.PATCH("/:id", h.Task.UpdateTask)
		tasks.DELETE("/:id", h.Task.DeleteTask)
	}

	// Upload routes (protected)
	uploads := r.Group("/uploads")
	uploads.Use(requireAuth)
	{
		uploads.GET("", h.Upload.ListUploads)
		uploads.POST("", h.Upload.CreateUpload)
		uploads.DELETE("", h.Upload.DeleteUpload)
		uploads.DELETE("/:id", h.Upload.DeleteUpload)
	}

	// Companion routes (protected)
	companion := r.Group("/companion")
	companion.Use(requireAuth)
	{
		companion.GET("/recommendations", h.Companion.ListRecommendations)
		companion.POST("/recommendations", h.Companion.Recommend)
	}
}
