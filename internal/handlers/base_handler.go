package handlers

import (
	"errors"
	"strconv"

	"gatherly_backend/internal/validator"
	"gatherly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler carries the cross-cutting helpers every handler needs.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{validator: validator.New()}
}

// GetAndAuthorizeUserID pulls the authenticated user from the gin
// context set by the auth middleware. A missing value means the route
// was wired without the middleware.
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get("userID")
	if !exists {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return userID, true
}

// BindAndValidate_JSON binds the request body and runs struct
// validation, writing the error response itself on failure.
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidate_Query does the same for query parameters.
func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	if err := h.validator.Validate(obj); err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			apperrors.HandleError(c, apperrors.ValidationError(validationErr.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError maps a service error onto the response.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

func (h *BaseHandler) ParseQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// ParsePagination normalizes page/page_size with sane bounds.
func (h *BaseHandler) ParsePagination(c *gin.Context) (page, pageSize int) {
	page = h.ParseQueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = h.ParseQueryInt(c, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
