package models

type AttendeeStatus string

const (
	AttendeeStatusPending  AttendeeStatus = "pending"
	AttendeeStatusGoing    AttendeeStatus = "going"
	AttendeeStatusDeclined AttendeeStatus = "declined"
)

// Attendee associates a user with an event. The rows double as the
// recipient set for change fan-out.
type Attendee struct {
	BaseModel
	EventID string         `gorm:"not null;index;uniqueIndex:idx_attendee_event_user"`
	UserID  string         `gorm:"not null;index;uniqueIndex:idx_attendee_event_user"`
	Status  AttendeeStatus `gorm:"type:varchar(20);default:'pending'"`

	// Set once the user changes their response after initially
	// answering the invite.
	UpdatedGoing bool `gorm:"column:updated_going;default:false"`
}
