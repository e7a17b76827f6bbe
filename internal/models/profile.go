package models

// Profile is the public identity the mobile app shows. ShareableSlug is
// assigned once by the slug service and stays stable unless regenerated.
type Profile struct {
	BaseModel
	UserID        string `gorm:"not null;uniqueIndex"`
	Username      string `gorm:"not null;uniqueIndex"`
	FullName      string
	AvatarURL     string
	ShareableSlug string `gorm:"uniqueIndex;not null"`

	// Push delivery state. An empty token is a normal state, not an
	// error; PushPromptSeen records whether permission was already
	// requested on a device.
	ExpoPushToken  string
	PushPromptSeen bool `gorm:"default:false"`

	OnboardingDone bool `gorm:"default:false"`
}
