package handlers

import (
	"net/http"

	"gatherly_backend/internal/services"
	"gatherly_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{BaseHandler: base, eventService: eventService}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	events := r.Group("/events")
	{
		// Shareable link resolution stays public.
		events.GET("/slug/:slug", h.GetBySlug)

		authed := events.Group("", authRequired)
		{
			authed.POST("", h.Create)
			authed.GET("/created", h.ListCreated)
			authed.GET("/invited", h.ListInvited)
			authed.GET("/:id", h.Get)
			authed.PATCH("/:id", h.Update)
			authed.POST("/:id/cancel", h.Cancel)
			authed.POST("/:id/invite", h.Invite)
			authed.POST("/:id/respond", h.Respond)
		}
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Get(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	event, err := h.eventService.GetEvent(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetBySlug(c *gin.Context) {
	event, err := h.eventService.GetEventBySlug(c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ListCreated(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	events, err := h.eventService.ListCreatedEvents(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) ListInvited(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	events, err := h.eventService.ListInvitedEvents(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.CancelEvent(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Invite(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.InviteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.eventService.InviteUsers(userID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.eventService.Respond(userID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
