package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
	apierrors "github.com/yukikurage/chrono-planner-api/internal/errors"
	"github.com/yukikurage/chrono-planner-api/internal/middleware"
	"github.com/yukikurage/chrono-planner-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the auth
// cookie Secure and should be set when served over HTTPS.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		secureCookie: secureCookie,
	}
}

// CheckUser reports whether a username is registered.
func (h *AuthHandler) CheckUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		apierrors.MissingField(c, "username")
		return
	}

	exists, err := h.authService.CheckUsername(c.Request.Context(), username)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// Login authenticates a user, registering unseen usernames, and sets the auth cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string  `json:"username"`
		Password string  `json:"password"`
		Email    *string `json:"email"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, created, err := h.authService.LoginOrSignup(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}
	h.setAuthCookie(c, token, int(h.tokenService.TTL().Seconds()))

	if created {
		slog.Info("user signed up", "user_id", user.ID, "username", user.Username)
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    dto.ToUserDTO(*user),
	})
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Status returns the authenticated user with points and level.
func (h *AuthHandler) Status(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserStatusDTO(*user))
}

// setAuthCookie writes the auth cookie; a negative maxAge deletes it.
func (h *AuthHandler) setAuthCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.AuthCookieName, value, maxAge, "/", "", h.secureCookie, true)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.MissingField(c, "username")
	case errors.Is(err, services.ErrPasswordRequired):
		apierrors.MissingField(c, "password")
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.MissingField(c, "email")
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameExhausted):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
