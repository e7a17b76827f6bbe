package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"gatherly_backend/internal/config"
	"gatherly_backend/internal/imageprocessor"
	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/internal/storage"
	"gatherly_backend/pkg/apperrors"
)

type UploadService interface {
	UploadImage(ctx context.Context, userID, folder string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
	DeleteUpload(ctx context.Context, userID, path string) error
	ListUserUploads(userID string) ([]*dto.UploadResponse, error)
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	store      storage.Storage
	processor  *imageprocessor.Processor
	cfg        *config.Config
}

func NewUploadService(
	uploadRepo repositories.UploadRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	cfg *config.Config,
) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		store:      store,
		processor:  processor,
		cfg:        cfg,
	}
}

var extensionByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// UploadImage validates, re-encodes and stores an image, then records
// the upload so ownership checks can gate deletion later.
func (s *uploadService) UploadImage(ctx context.Context, userID, folder string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !s.typeAllowed(contentType) {
		return nil, apperrors.ErrUnsupportedFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	// Re-encode JPEG and PNG through the processor; pass other allowed
	// formats through after a header sniff.
	var payload io.Reader
	switch contentType {
	case "image/jpeg", "image/png":
		payload, err = s.processor.Process(src)
		if err != nil {
			return nil, apperrors.ErrUnsupportedFileType
		}
	default:
		head := make([]byte, 512)
		n, _ := io.ReadFull(src, head)
		if !imageprocessor.IsValidImage(bytes.NewReader(head[:n])) {
			return nil, apperrors.ErrUnsupportedFileType
		}
		payload = io.MultiReader(bytes.NewReader(head[:n]), src)
	}

	suffix, err := randomSuffix()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	path := fmt.Sprintf("%s/%d_%s.%s", folder, time.Now().Unix(), suffix, extensionByType[contentType])

	if err := s.store.Save(ctx, path, payload, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	publicURL, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	upload := &models.Upload{
		UserID:      userID,
		Folder:      folder,
		Path:        path,
		PublicURL:   publicURL,
		ContentType: contentType,
		Size:        file.Size,
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		// Orphaned objects are cleaned up best effort.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.WithError(delErr).Warn("orphaned upload cleanup failed", "path", path)
		}
		return nil, apperrors.InternalError(err)
	}

	return buildUploadResponse(upload), nil
}

// Open returns the stored object body and its recorded content type.
// Only paths with an Upload row are served; nothing else in the bucket
// is reachable through the API.
func (s *uploadService) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	upload, err := s.uploadRepo.FindByPath(path)
	if err != nil {
		return nil, "", apperrors.ErrNotFound(err)
	}

	exists, err := s.store.Exists(ctx, path)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	if !exists {
		return nil, "", apperrors.ErrNotFound(repositories.ErrUploadNotFound)
	}

	body, err := s.store.Get(ctx, path)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return body, upload.ContentType, nil
}

func (s *uploadService) DeleteUpload(ctx context.Context, userID, path string) error {
	upload, err := s.uploadRepo.FindByPath(path)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if upload.UserID != userID {
		return apperrors.NewForbiddenError("Upload belongs to another user")
	}

	if err := s.store.Delete(ctx, path); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.uploadRepo.Delete(upload.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *uploadService) ListUserUploads(userID string) ([]*dto.UploadResponse, error) {
	uploads, err := s.uploadRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.UploadResponse, 0, len(uploads))
	for i := range uploads {
		responses = append(responses, buildUploadResponse(&uploads[i]))
	}
	return responses, nil
}

func (s *uploadService) typeAllowed(contentType string) bool {
	for _, allowed := range s.cfg.Upload.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func buildUploadResponse(upload *models.Upload) *dto.UploadResponse {
	return &dto.UploadResponse{
		ID:          upload.ID,
		Path:        upload.Path,
		PublicURL:   upload.PublicURL,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		CreatedAt:   upload.CreatedAt,
	}
}

func randomSuffix() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
