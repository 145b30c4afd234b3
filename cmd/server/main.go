package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yukikurage/chrono-planner-api/internal/config"
	"github.com/yukikurage/chrono-planner-api/internal/database"
	"github.com/yukikurage/chrono-planner-api/internal/handlers"
	"github.com/yukikurage/chrono-planner-api/internal/logger"
	"github.com/yukikurage/chrono-planner-api/internal/middleware"
	"github.com/yukikurage/chrono-planner-api/internal/repository"
	"github.com/yukikurage/chrono-planner-api/internal/services"
	"github.com/yukikurage/chrono-planner-api/internal/storage"
)

const (
	companionRunTimeout = 5 * time.Minute
	shutdownTimeout     = 10 * time.Second
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// A missing .env is fine outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize object storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	recRepo := repository.NewRecommendationRepository(db)

	// Initialize AI service
	var generator services.MessageGenerator
	if cfg.AIEnabled() {
		generator = services.NewAIService(cfg.Companion.OpenAIAPIKey)
	}

	// Services
	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(userRepo, cfg.Auth.RequireEmail)
	companionService := services.NewCompanionService(recRepo, taskRepo, userRepo, generator)

	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService, tokenService, cfg.IsRelease()),
		Schedule:  handlers.NewScheduleHandler(services.NewScheduleService(scheduleRepo)),
		Task:      handlers.NewTaskHandler(services.NewTaskService(taskRepo, scheduleRepo)),
		Upload:    handlers.NewUploadHandler(services.NewUploadService(uploadRepo, taskRepo, store), cfg.Storage.MaxUploadBytes),
		Companion: handlers.NewCompanionHandler(companionService),
	}

	stop := make(chan struct{})
	loginLimiter := middleware.NewIPRateLimiter(cfg.Auth.LoginRateRPS, cfg.Auth.LoginRateBurst)
	go loginLimiter.RunSweeper(stop)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Chrono Planner API is running",
		})
	})

	if local, ok := store.(*storage.LocalStore); ok {
		r.Static("/files", local.Dir())
	}

	handlers.RegisterRoutes(r.Group("/api"), h, middleware.NewAuthGate(tokenService, authService), loginLimiter)

	scheduler := services.NewSchedulerService(time.Local)
	if companionService.Enabled() {
		if _, err := scheduler.ScheduleCompanionRefresh(cfg.Companion.Schedule, companionService, companionRunTimeout); err != nil {
			slog.Error("invalid companion schedule", "spec", cfg.Companion.Schedule, "error", err)
			os.Exit(1)
		}
		slog.Info("companion refresh scheduled", "spec", cfg.Companion.Schedule)
	} else {
		slog.Info("OPENAI_API_KEY not set, companion recommendations disabled")
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	scheduler.Stop()
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	slog.Info("server stopped")
}
