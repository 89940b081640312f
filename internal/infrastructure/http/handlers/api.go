// Package handlers provides the REST API handlers
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	suggestions inbound.SuggestionService
	feedback    inbound.FeedbackService
	profiles    inbound.ProfileService
	dailyUpdate inbound.DailyUpdateService
	inventory   outbound.InventoryProvider
	logger      *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	suggestions inbound.SuggestionService,
	feedback inbound.FeedbackService,
	profiles inbound.ProfileService,
	dailyUpdate inbound.DailyUpdateService,
	inventory outbound.InventoryProvider,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		suggestions: suggestions,
		feedback:    feedback,
		profiles:    profiles,
		dailyUpdate: dailyUpdate,
		inventory:   inventory,
		logger:      logger.Named("api"),
	}
}

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type suggestionRequest struct {
	UserID          string   `json:"user_id" binding:"required"`
	Inventory       []string `json:"inventory,omitempty"`
	MaxReadyMinutes int      `json:"max_ready_minutes,omitempty" binding:"omitempty,min=1"`
	Limit           int      `json:"limit,omitempty" binding:"omitempty,min=1,max=50"`
}

// Suggest handles POST /api/v1/suggestions
func (h *APIHandlers) Suggest(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.suggestions.Suggest(c.Request.Context(), inbound.SuggestionQuery{
		UserID:            req.UserID,
		InventoryOverride: req.Inventory,
		MaxReadyMinutes:   req.MaxReadyMinutes,
		Limit:             req.Limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: result})
}

type feedbackRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	RecipeID   string `json:"recipe_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text,omitempty"`
}

// SubmitFeedback handles POST /api/v1/feedback
func (h *APIHandlers) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	summary, err := h.feedback.Submit(c.Request.Context(), inbound.SubmitFeedbackCommand{
		UserID:     req.UserID,
		RecipeID:   req.RecipeID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: summary})
}

type registerRequest struct {
	UserID       string   `json:"user_id" binding:"required"`
	Diet         string   `json:"diet,omitempty" binding:"omitempty,diet"`
	Intolerances []string `json:"intolerances,omitempty"`
}

// RegisterUser handles POST /api/v1/users
func (h *APIHandlers) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	summary, err := h.profiles.Register(c.Request.Context(), inbound.RegisterUserCommand{
		UserID:       req.UserID,
		Restrictions: restrictions(req.Diet, req.Intolerances),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: summary})
}

// ListUsers handles GET /api/v1/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	ids, err := h.profiles.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: ids})
}

// GetProfile handles GET /api/v1/users/:id/profile
func (h *APIHandlers) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: profile})
}

type restrictionsRequest struct {
	Diet         string   `json:"diet,omitempty" binding:"omitempty,diet"`
	Intolerances []string `json:"intolerances,omitempty"`
}

// UpdateRestrictions handles PUT /api/v1/users/:id/restrictions
func (h *APIHandlers) UpdateRestrictions(c *gin.Context) {
	var req restrictionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	summary, err := h.profiles.UpdateRestrictions(c.Request.Context(), c.Param("id"),
		restrictions(req.Diet, req.Intolerances))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: summary})
}

// GetInventory handles GET /api/v1/inventory
func (h *APIHandlers) GetInventory(c *gin.Context) {
	items, err := h.inventory.FetchItems(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: items})
}

// RunDailyUpdate handles POST /api/v1/admin/daily-update
func (h *APIHandlers) RunDailyUpdate(c *gin.Context) {
	report, err := h.dailyUpdate.Run(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: report})
}

// Health handles GET /health
func (h *APIHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *APIHandlers) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
}

// fail maps application errors onto HTTP status codes
func (h *APIHandlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, APIResponse{Success: false, Error: message})
}

func restrictions(diet string, intolerances []string) preference.DietaryRestrictions {
	return preference.DietaryRestrictions{Diet: diet, Intolerances: intolerances}
}
