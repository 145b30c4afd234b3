package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
	apierrors "github.com/yukikurage/chrono-planner-api/internal/errors"
	"github.com/yukikurage/chrono-planner-api/internal/middleware"
	"github.com/yukikurage/chrono-planner-api/internal/services"
)

type CompanionHandler struct {
	companionService *services.CompanionService
}

func NewCompanionHandler(companionService *services.CompanionService) *CompanionHandler {
	return &CompanionHandler{companionService: companionService}
}

// ListRecommendations returns the current user's latest companion messages
func (h *CompanionHandler) ListRecommendations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	recs, err := h.companionService.ListRecommendations(c.Request.Context(), userID)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToRecommendationDTOs(recs))
}

// Recommend generates a message now
func (h *CompanionHandler) Recommend(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	rec, err := h.companionService.Recommend(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.ServiceUnavailable(c, "AI service is not configured")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.Unauthorized(c, err.Error())
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, dto.RecommendationDTO{
		ID:        rec.ID,
		Message:   rec.Message,
		CreatedAt: rec.CreatedAt,
	})
}
