package handlers

import (
	"io"
	"net/http"
	"strings"

	"gatherly_backend/internal/services"
	"gatherly_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

var allowedFolders = map[string]bool{
	"events":  true,
	"avatars": true,
}

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploadService: uploadService}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	uploads := r.Group("/uploads", authRequired)
	{
		uploads.POST("/:folder", h.Upload)
		uploads.GET("", h.List)
		uploads.DELETE("", h.Delete)
	}

	// Object URLs are shared as event images and avatars, so serving is
	// unauthenticated.
	r.GET("/files/*path", h.Serve)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	folder := c.Param("folder")
	if !allowedFolders[folder] {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Unknown upload folder"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing file field"))
		return
	}

	upload, err := h.uploadService.UploadImage(c.Request.Context(), userID, folder, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

func (h *UploadHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	uploads, err := h.uploadService.ListUserUploads(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// Serve streams a stored object with its recorded content type.
func (h *UploadHandler) Serve(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing file path"))
		return
	}

	body, contentType, err := h.uploadService.Open(c.Request.Context(), path)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	// A copy error here means the client went away mid-stream.
	_, _ = io.Copy(c.Writer, body)
}

// Delete takes the object path as a query parameter since it contains
// slashes.
func (h *UploadHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	path := c.Query("path")
	if path == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing path parameter"))
		return
	}

	if err := h.uploadService.DeleteUpload(c.Request.Context(), userID, path); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
