package routes

import (
	"net/http"

	"gatherly_backend/internal/handlers"
	"gatherly_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the full API under /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	authRequired := middleware.AuthMiddleware()

	h.Auth.RegisterRoutes(api, authRequired)
	h.Profile.RegisterRoutes(api, authRequired)
	h.Event.RegisterRoutes(api, authRequired)
	h.Friend.RegisterRoutes(api, authRequired)
	h.Notification.RegisterRoutes(api, authRequired)
	h.Upload.RegisterRoutes(api, authRequired)
}
