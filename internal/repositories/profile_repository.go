package repositories

import (
	"errors"
	"strings"

	"gatherly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
)

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	FindByUsername(username string) (*models.Profile, error)
	FindBySlug(slug string) (*models.Profile, error)
	FindByUserIDs(userIDs []string) ([]models.Profile, error)
	Update(profile *models.Profile) error
	SlugExists(slug string) (bool, error)
	Search(query string, limit int) ([]models.Profile, error)
	SetPushToken(userID, token string) error
	SetPushPromptSeen(userID string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	var count int64
	if err := r.db.Model(&models.Profile{}).Where("username = ?", profile.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameAlreadyTaken
	}
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(userID string) (*models.Profile, error) {
	return r.findOne("user_id = ?", userID)
}

func (r *profileRepository) FindByUsername(username string) (*models.Profile, error) {
	return r.findOne("username = ?", username)
}

func (r *profileRepository) FindBySlug(slug string) (*models.Profile, error) {
	return r.findOne("shareable_slug = ?", slug)
}

func (r *profileRepository) findOne(query string, arg interface{}) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUserIDs(userIDs []string) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []models.Profile
	err := r.db.Where("user_id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("shareable_slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) Search(query string, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var profiles []models.Profile
	err := r.db.
		Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) SetPushToken(userID, token string) error {
	result := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).
		Update("expo_push_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) SetPushPromptSeen(userID string) error {
	result := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).
		Update("push_prompt_seen", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
