package dto

import "time"

type UploadResponse struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	PublicURL   string    `json:"public_url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
