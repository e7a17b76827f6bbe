package repositories

import (
	"errors"

	"gatherly_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(upload *models.Upload) error
	FindByPath(path string) (*models.Upload, error)
	FindByUser(userID string) ([]models.Upload, error)
	Delete(id string) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(upload *models.Upload) error {
	return r.db.Create(upload).Error
}

func (r *uploadRepository) FindByPath(path string) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.First(&upload, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepository) FindByUser(userID string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

func (r *uploadRepository) Delete(id string) error {
	return r.db.Delete(&models.Upload{}, "id = ?", id).Error
}
