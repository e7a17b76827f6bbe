package handlers

import (
	"net/http"

	"gatherly_backend/internal/services"
	"gatherly_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	*BaseHandler
	friendService services.FriendService
}

func NewFriendHandler(base *BaseHandler, friendService services.FriendService) *FriendHandler {
	return &FriendHandler{BaseHandler: base, friendService: friendService}
}

func (h *FriendHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	friends := r.Group("/friends", authRequired)
	{
		friends.GET("", h.List)
		friends.POST("/requests", h.SendRequest)
		friends.GET("/requests", h.ListPending)
		friends.POST("/requests/:id/accept", h.Accept)
		friends.POST("/requests/:id/decline", h.Decline)
		friends.DELETE("/:userId", h.Remove)
	}
}

func (h *FriendHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	friends, err := h.friendService.ListFriends(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FriendRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.friendService.SendRequest(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *FriendHandler) ListPending(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.friendService.ListPendingRequests(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *FriendHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.friendService.AcceptRequest(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FriendHandler) Decline(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.friendService.DeclineRequest(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FriendHandler) Remove(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.friendService.RemoveFriend(userID, c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
