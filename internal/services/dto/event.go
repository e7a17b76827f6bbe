package dto

import "time"

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location" validate:"max=200"`
	StartsAt    time.Time `json:"starts_at" binding:"required" validate:"required"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
}

type UpdateEventRequest struct {
	Title    *string    `json:"title" validate:"omitempty,max=200"`
	Location *string    `json:"location" validate:"omitempty,max=200"`
	StartsAt *time.Time `json:"starts_at"`
	ImageURL *string    `json:"image_url" validate:"omitempty,url"`
}

type InviteRequest struct {
	UserIDs []string `json:"user_ids" binding:"required" validate:"required,min=1"`
}

type RespondRequest struct {
	Going bool `json:"going"`
}

type AttendeeResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	Status       string `json:"status"`
	UpdatedGoing bool   `json:"updated_going"`
}

type EventResponse struct {
	ID            string             `json:"id"`
	CreatorID     string             `json:"creator_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Location      string             `json:"location,omitempty"`
	StartsAt      time.Time          `json:"starts_at"`
	ShareableSlug string             `json:"shareable_slug"`
	ImageURL      string             `json:"image_url,omitempty"`
	Status        string             `json:"status"`
	Attendees     []AttendeeResponse `json:"attendees,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}
