package repositories

import (
	"errors"

	"gatherly_backend/internal/models"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(event *models.Event) error
	FindByID(id string) (*models.Event, error)
	FindBySlug(slug string) (*models.Event, error)
	FindByCreator(creatorID string) ([]models.Event, error)
	FindByInvitee(userID string) ([]models.Event, error)
	Update(event *models.Event) error
	UpdateStatus(eventID string, status models.EventStatus) error
	SlugExists(slug string) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) FindByID(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindBySlug(slug string) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, "shareable_slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByCreator(creatorID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("creator_id = ?", creatorID).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) FindByInvitee(userID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Joins("JOIN attendees ON attendees.event_id = events.id").
		Where("attendees.user_id = ?", userID).
		Order("events.starts_at ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) UpdateStatus(eventID string, status models.EventStatus) error {
	result := r.db.Model(&models.Event{}).Where("id = ?", eventID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("shareable_slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
