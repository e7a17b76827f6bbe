package handlers

import (
	"net/http"

	"gatherly_backend/internal/services"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{BaseHandler: base, profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	profiles := r.Group("/profiles")
	{
		profiles.GET("/slug/:slug", h.GetBySlug)

		authed := profiles.Group("", authRequired)
		{
			authed.POST("", h.Create)
			authed.GET("/me", h.GetMine)
			authed.PATCH("/me", h.Update)
			authed.POST("/me/push-token", h.RegisterPushToken)
			authed.DELETE("/me/push-token", h.ClearPushToken)
			authed.POST("/me/push-prompt-seen", h.MarkPushPromptSeen)
			authed.POST("/me/onboarding-done", h.CompleteOnboarding)
			authed.GET("/search", h.Search)
		}
	}
}

func (h *ProfileHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfileByUserID(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetBySlug(c *gin.Context) {
	profile, err := h.profileService.GetProfileBySlug(c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) RegisterPushToken(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RegisterPushTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.profileService.RegisterPushToken(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) ClearPushToken(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.ClearPushToken(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) MarkPushPromptSeen(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.MarkPushPromptSeen(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.CompleteOnboarding(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Search(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing search query"))
		return
	}
	limit := h.ParseQueryInt(c, "limit", 20)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	profiles, err := h.profileService.SearchProfiles(query, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
