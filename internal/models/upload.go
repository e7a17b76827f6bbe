package models

type Upload struct {
	BaseModel
	UserID      string `gorm:"not null;index"`
	Folder      string `gorm:"not null"`
	Path        string `gorm:"not null;uniqueIndex"`
	PublicURL   string `gorm:"not null"`
	ContentType string `gorm:"not null"`
	Size        int64  `gorm:"not null"`
}
