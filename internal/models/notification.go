package models

import (
	"gorm.io/datatypes"
	"time"
)

// Notification is an append-only log row per recipient. Read is
// monotonic: once true it is never reverted by this system. Response
// records an invite answer on the notification itself.
type Notification struct {
	BaseModel
	UserID   string `gorm:"not null;index"`
	Type     string `gorm:"not null"` // "event_invite", "event_update", "event_cancellation", "friend_request", ...
	Title    string `gorm:"not null"`
	Body     string
	Data     datatypes.JSON `gorm:"type:jsonb"` // {"type": "...", "event_id": "..."}
	Read     bool           `gorm:"default:false"`
	ReadAt   *time.Time
	Response *bool
}
