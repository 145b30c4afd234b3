package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameExhausted    = errors.New("no free username available")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo     repository.UserRepository
	requireEmail bool
}

// NewAuthService creates a new AuthService. When requireEmail is set, first
// time logins must carry an email address.
func NewAuthService(userRepo repository.UserRepository, requireEmail bool) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		requireEmail: requireEmail,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
	Email    *string
}

// LoginOrSignup authenticates an existing user or registers an unseen
// username. The bool result reports whether a new account was created.
func (s *AuthService) LoginOrSignup(ctx context.Context, input LoginInput) (*models.User, bool, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, false, ErrUsernameRequired
	}
	if input.Password == "" {
		return nil, false, ErrPasswordRequired
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			return nil, false, ErrInvalidCredentials
		}
		return user, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err := s.signup(ctx, username, input.Password, normalizeEmail(input.Email))
		if err != nil {
			return nil, false, err
		}
		return user, true, nil
	default:
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}
}

func (s *AuthService) signup(ctx context.Context, base, password string, email *string) (*models.User, error) {
	if s.requireEmail && email == nil {
		return nil, ErrEmailRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	for attempt := 0; attempt < constants.MaxSignupAttempts; attempt++ {
		username, err := s.uniqueUsername(ctx, base)
		if err != nil {
			return nil, err
		}

		user := &models.User{
			Username:     username,
			PasswordHash: string(hashedPassword),
			Email:        email,
			Points:       0,
			Level:        constants.InitialLevel,
		}

		err = s.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		// Either a concurrent signup took the name or the email is in use.
		taken, lookupErr := s.userRepo.ExistsByUsername(ctx, username)
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to check username: %w", lookupErr)
		}
		if !taken {
			return nil, ErrEmailTaken
		}
	}

	return nil, ErrUsernameExhausted
}

// uniqueUsername returns base, or base followed by the smallest positive
// integer that makes it unused.
func (s *AuthService) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; i <= constants.MaxUsernameSuffix; i++ {
		taken, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", ErrUsernameExhausted
}

// CheckUsername reports whether username is already registered.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, ErrUsernameRequired
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
