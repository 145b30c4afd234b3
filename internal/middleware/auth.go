package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/constants"
	apierrors "github.com/yukikurage/chrono-planner-api/internal/errors"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"github.com/yukikurage/chrono-planner-api/internal/services"
)

var (
	ErrMissingToken = errors.New("missing auth token")
	ErrInvalidToken = errors.New("invalid auth token")
	ErrUserNotFound = errors.New("token user not found")
)

// TokenVerifier resolves a session token to a user id
type TokenVerifier interface {
	Verify(token string) (uint64, error)
}

// UserLookup loads the user a token refers to
type UserLookup interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// AuthGate resolves the auth cookie of a request to a user.
type AuthGate struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewAuthGate(tokens TokenVerifier, users UserLookup) *AuthGate {
	return &AuthGate{tokens: tokens, users: users}
}

// Authenticate returns the user or one of ErrMissingToken, ErrInvalidToken,
// ErrUserNotFound. Any other error comes from the user store.
func (g *AuthGate) Authenticate(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(constants.AuthCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrMissingToken
	}

	userID, err := g.tokens.Verify(cookie.Value)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := g.users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// RequireAuth rejects requests without a valid auth cookie and stores the
// resolved user in the context.
func RequireAuth(gate *AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := gate.Authenticate(c.Request)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingToken),
				errors.Is(err, ErrInvalidToken),
				errors.Is(err, ErrUserNotFound):
				slog.Debug("auth rejected", "reason", err, "path", c.FullPath())
				apierrors.Unauthorized(c, "")
			default:
				apierrors.InternalError(c, err.Error())
			}
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// CurrentUser returns the user resolved by RequireAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
