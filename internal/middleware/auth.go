package middleware

import (
	"strings"

	"gatherly_backend/internal/auth"
	"gatherly_backend/internal/logger"
	"gatherly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the user ID in
// the gin context and the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing authorization header"))
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
