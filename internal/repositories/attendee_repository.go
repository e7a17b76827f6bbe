package repositories

import (
	"errors"

	"gatherly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAttendeeNotFound      = errors.New("attendee not found")
	ErrAttendeeAlreadyExists = errors.New("attendee already exists")
)

type AttendeeRepository interface {
	CreateBatch(attendees []*models.Attendee) error
	FindByEvent(eventID string) ([]models.Attendee, error)
	FindByEventAndUser(eventID, userID string) (*models.Attendee, error)
	UpdateStatus(eventID, userID string, status models.AttendeeStatus, updatedGoing bool) error
	CountPendingForUser(userID string) (int64, error)
}

type attendeeRepository struct {
	db *gorm.DB
}

func NewAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

func (r *attendeeRepository) CreateBatch(attendees []*models.Attendee) error {
	if len(attendees) == 0 {
		return nil
	}
	return r.db.CreateInBatches(attendees, 100).Error
}

func (r *attendeeRepository) FindByEvent(eventID string) ([]models.Attendee, error) {
	var attendees []models.Attendee
	err := r.db.Where("event_id = ?", eventID).Find(&attendees).Error
	return attendees, err
}

func (r *attendeeRepository) FindByEventAndUser(eventID, userID string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := r.db.First(&attendee, "event_id = ? AND user_id = ?", eventID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepository) UpdateStatus(eventID, userID string, status models.AttendeeStatus, updatedGoing bool) error {
	result := r.db.Model(&models.Attendee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Updates(map[string]interface{}{
			"status":        status,
			"updated_going": updatedGoing,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendeeNotFound
	}
	return nil
}

func (r *attendeeRepository) CountPendingForUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Attendee{}).
		Joins("JOIN events ON events.id = attendees.event_id").
		Where("attendees.user_id = ? AND attendees.status = ? AND events.status = ?",
			userID, models.AttendeeStatusPending, models.EventStatusActive).
		Count(&count).Error
	return count, err
}
