package repositories

import (
	"errors"

	"gatherly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrFriendshipNotFound      = errors.New("friendship not found")
	ErrFriendshipAlreadyExists = errors.New("friendship already exists")
)

type FriendRepository interface {
	Create(friendship *models.Friendship) error
	FindByID(id string) (*models.Friendship, error)
	FindPair(userID, friendID string) (*models.Friendship, error)
	Accept(id string) error
	Delete(id string) error
	FindFriends(userID string) ([]models.Friendship, error)
	FindPendingFor(userID string) ([]models.Friendship, error)
	CountPendingFor(userID string) (int64, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(friendship *models.Friendship) error {
	existing, err := r.FindPair(friendship.UserID, friendship.FriendID)
	if err != nil && !errors.Is(err, ErrFriendshipNotFound) {
		return err
	}
	if existing != nil {
		return ErrFriendshipAlreadyExists
	}
	return r.db.Create(friendship).Error
}

func (r *friendRepository) FindByID(id string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.First(&friendship, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// FindPair looks up the relationship in either direction.
func (r *friendRepository) FindPair(userID, friendID string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.First(&friendship,
		"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *friendRepository) Accept(id string) error {
	result := r.db.Model(&models.Friendship{}).Where("id = ?", id).
		Update("status", models.FriendshipStatusAccepted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (r *friendRepository) Delete(id string) error {
	return r.db.Delete(&models.Friendship{}, "id = ?", id).Error
}

func (r *friendRepository) FindFriends(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.
		Where("(user_id = ? OR friend_id = ?) AND status = ?",
			userID, userID, models.FriendshipStatusAccepted).
		Find(&friendships).Error
	return friendships, err
}

// FindPendingFor returns requests awaiting userID's answer.
func (r *friendRepository) FindPendingFor(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.
		Where("friend_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}

func (r *friendRepository) CountPendingFor(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("friend_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Count(&count).Error
	return count, err
}
