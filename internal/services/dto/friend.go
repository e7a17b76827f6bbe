package dto

import "time"

type FriendRequestRequest struct {
	UserID string `json:"user_id" binding:"required" validate:"required"`
}

type FriendResponse struct {
	FriendshipID string    `json:"friendship_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Status       string    `json:"status"`
	Since        time.Time `json:"since"`
}
