package dto

import "time"

type CreateProfileRequest struct {
	Username  string `json:"username" binding:"required" validate:"required,username"`
	FullName  string `json:"full_name" binding:"required" validate:"required,max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type RegisterPushTokenRequest struct {
	Token string `json:"token" binding:"required" validate:"required"`
}

type ProfileResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	ShareableSlug  string    `json:"shareable_slug"`
	OnboardingDone bool      `json:"onboarding_done"`
	PushPromptSeen bool      `json:"push_prompt_seen"`
	CreatedAt      time.Time `json:"created_at"`
}
