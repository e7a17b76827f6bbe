package models

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is directed: UserID sent the request to FriendID. An
// accepted row counts for both directions.
type Friendship struct {
	BaseModel
	UserID   string           `gorm:"not null;index;uniqueIndex:idx_friendship_pair"`
	FriendID string           `gorm:"not null;index;uniqueIndex:idx_friendship_pair"`
	Status   FriendshipStatus `gorm:"type:varchar(20);default:'pending'"`
}
