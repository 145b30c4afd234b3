package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/repository"
	"gorm.io/gorm"
)

var ErrAIServiceNotConfigured = errors.New("AI service is not configured")

// CompanionService produces and stores recommendation messages.
type CompanionService struct {
	recRepo   repository.RecommendationRepository
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	generator MessageGenerator
	now       func() time.Time
}

// NewCompanionService creates a new CompanionService. A nil generator
// disables message generation; stored messages can still be listed.
func NewCompanionService(
	recRepo repository.RecommendationRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	generator MessageGenerator,
) *CompanionService {
	return &CompanionService{
		recRepo:   recRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		generator: generator,
		now:       time.Now,
	}
}

// Enabled reports whether messages can be generated
func (s *CompanionService) Enabled() bool {
	return s.generator != nil
}

// ListRecommendations returns the user's latest messages
func (s *CompanionService) ListRecommendations(ctx context.Context, userID uint64) ([]models.Recommendation, error) {
	recs, err := s.recRepo.ListRecent(ctx, userID, constants.RecommendationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// Recommend generates a message from the user's pending tasks and stores it
func (s *CompanionService) Recommend(ctx context.Context, userID uint64) (*models.Recommendation, error) {
	if !s.Enabled() {
		return nil, ErrAIServiceNotConfigured
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	pending, err := s.taskRepo.ListPending(ctx, userID, constants.MaxPendingTasksInPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	titles := make([]string, 0, len(pending))
	for _, t := range pending {
		titles = append(titles, t.Title)
	}

	message, err := s.generator.GenerateMessage(ctx, CompanionPrompt{
		Username:     user.Username,
		Level:        user.Level,
		Points:       user.Points,
		PendingTasks: titles,
		Now:          s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendation: %w", err)
	}

	rec := &models.Recommendation{UserID: userID, Message: message}
	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store recommendation: %w", err)
	}

	return rec, nil
}

// RefreshAll generates a message for every user with unfinished tasks and
// returns how many were stored. A failure for one user does not stop the rest.
func (s *CompanionService) RefreshAll(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, ErrAIServiceNotConfigured
	}

	userIDs, err := s.taskRepo.UserIDsWithPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users with pending tasks: %w", err)
	}

	stored := 0
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if _, err := s.Recommend(ctx, id); err != nil {
			slog.Warn("companion refresh failed", "user_id", id, "error", err)
			continue
		}
		stored++
	}

	return stored, nil
}
