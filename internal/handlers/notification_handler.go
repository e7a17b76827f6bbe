package handlers

import (
	"net/http"

	"gatherly_backend/internal/services"
	"gatherly_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
	eventService        services.EventService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService, eventService services.EventService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
		eventService:        eventService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	notifications := r.Group("/notifications", authRequired)
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read-all", h.MarkAllRead)
		notifications.POST("/read", h.MarkMultipleRead)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/:id/respond", h.Respond)
	}

	// Single round trip for the mobile app's badge poll.
	r.GET("/poll/counts", authRequired, h.PollCounts)
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := h.ParsePagination(c)
	criteria := dto.NotificationCriteria{
		UnreadOnly: c.Query("unread_only") == "true",
		Type:       c.Query("type"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.notificationService.GetUserNotifications(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkMultipleRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req struct {
		IDs []string `json:"ids" binding:"required" validate:"required,min=1"`
	}
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.notificationService.MarkMultipleAsRead(userID, req.IDs); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	notificationID := c.Param("id")

	// The attendee row is the source of truth for pending-invite counts,
	// so the answer runs through the event respond flow before being
	// recorded on the notification itself.
	eventID, err := h.notificationService.InviteEventID(userID, notificationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if err := h.eventService.Respond(userID, eventID, &dto.RespondRequest{Going: req.Accept}); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if err := h.notificationService.RespondToInvite(userID, notificationID, req.Accept); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) PollCounts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	counts, err := h.notificationService.GetPendingCounts(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
