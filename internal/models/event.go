package models

import "time"

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	BaseModel
	CreatorID     string `gorm:"not null;index"`
	Title         string `gorm:"not null"`
	Description   string
	Location      string
	StartsAt      time.Time   `gorm:"not null"`
	ShareableSlug string      `gorm:"uniqueIndex;not null"`
	ImageURL      string
	Status        EventStatus `gorm:"type:varchar(20);default:'active'"`

	// Relations
	Attendees []Attendee `gorm:"foreignKey:EventID"`
}
