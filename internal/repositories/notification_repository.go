package repositories

import (
	"errors"
	"time"

	"gatherly_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification type constants shared with the services layer.
const (
	NotificationTypeEventInvite       = "event_invite"
	NotificationTypeEventUpdate       = "event_update"
	NotificationTypeEventCancellation = "event_cancellation"
	NotificationTypeInviteResponse    = "invite_response"
	NotificationTypeFriendRequest     = "friend_request"
	NotificationTypeFriendAccepted    = "friend_accepted"
)

type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBatch(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(userID string) error
	MarkMultipleAsRead(notificationIDs []string) error
	SetResponse(notificationID string, response bool) error
	GetUnreadCount(userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch inserts all rows as one statement so the fan-out either
// commits as a whole or fails as a whole.
func (r *notificationRepository) CreateBatch(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	query := r.db.Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

// MarkAsRead is idempotent: re-marking an already-read row rewrites
// read=true and leaves the final state identical.
func (r *notificationRepository) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Updates(map[string]interface{}{
		"read":    true,
		"read_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(userID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": time.Now(),
		})
	return result.Error
}

func (r *notificationRepository) MarkMultipleAsRead(notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	result := r.db.Model(&models.Notification{}).
		Where("id IN ?", notificationIDs).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": time.Now(),
		})
	return result.Error
}

func (r *notificationRepository) SetResponse(notificationID string, response bool) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).
		Update("response", response)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
